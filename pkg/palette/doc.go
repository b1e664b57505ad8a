// Package palette assigns colours to the categorical attribute of each case.
//
// Every distinct attribute value gets one scalar in [0, 1), and the scalar is
// mapped to a colour through a [Colormap]. Cases with the same value always
// share one colour within a run.
//
// [ModeSorted] (the default) spaces the sorted values evenly over the
// colormap, so the same table always gets the same colours. [ModeRandom]
// draws scalars from a seeded pool instead.
//
// The [Assignment] also yields an ordered legend for renderers.
package palette
