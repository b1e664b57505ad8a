// Package layout places every case of a transmission forest on a
// time/generation plane.
//
// The x coordinate is a plot date (fractional days since the Unix epoch),
// the y coordinate is the transmission generation. Index cases sit just
// above the axis at [RootY]; their direct descendants are drawn at y = 1
// straight above the source's date, and deeper generations stack above
// their source's x so a chain reads as a vertical column.
//
// # Jitter
//
// First-generation cases of one source share a point. When a new case would
// land exactly on an occupied point it is nudged by a small random offset
// drawn from a seeded PCG source, so repeated runs produce the same picture:
//
//	l, err := layout.Compute(g, layout.WithSeed(7))
//
// Deeper generations are never jittered themselves; they inherit whatever
// x their source ended up with.
package layout
