// Package io loads outbreak case tables into [Record] values.
//
// # Overview
//
// A case table has one row per case with four columns: the case identifier,
// the time the case was recorded, the identifier of the case that infected
// it (empty for an index case) and a categorical attribute used for
// colouring, such as severity or gender. Column names are configurable with
// [Columns]; the defaults match the cluster_network table the casetree plot
// was first drawn from.
//
// # Formats
//
// [Import] picks a reader by file extension:
//
//   - .csv, .tsv: header row followed by data rows ([ReadCSV])
//   - .json: an array of objects keyed by column name ([ReadJSON])
//   - .db, .sqlite, .sqlite3: a table in a SQLite database ([ReadSQLite])
//
// Example CSV:
//
//	case_id,time,source_node,color
//	1,2013-04-02,,fatal
//	2,2013-04-09,1,mild
//
// # Normalisation
//
// Timestamps accept RFC 3339, "2006-01-02 15:04:05", "2006-01-02" and
// "01/02/2006"; numeric JSON and SQLite values are Unix seconds. A source of
// "", "nan", "null", "none" or "na" (any case) marks an index case, as does a
// source equal to the case's own id. Identifiers written as integral floats
// ("12.0") are shortened to "12", which is how numeric ids come out of tables
// whose source column also holds missing values.
//
// # Errors
//
// Missing columns are reported before any row is read, with an
// INVALID_SCHEMA code listing every absent column. Row-level problems carry
// the data row number through [errors.RowError].
package io
