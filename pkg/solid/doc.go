// Package solid implements the placement engine shared by all Tenon
// primitives: size normalization, radius/diameter resolution, circular
// segment resolution, and the alignment/orientation composer that turns
// a primitive's bounding size plus placement options into one affine
// transform and a set of named connector frames.
//
// Everything in this package is purely functional: no globals, no
// retained state between calls. Geometry construction itself lives
// behind the kernel abstraction; this package only does the math.
package solid
