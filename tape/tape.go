// Package tape names the sequential, file/block-structured counterpart to
// the random-access optical and block image contracts. Per spec, this is a
// shape only: no tape container decoder ships in this module, only the
// contract a future one (e.g. an AIT/DDS or virtual-tape plugin) would
// implement and that a verifier can already depend on today.
package tape

import "diskimage/image"

// File is an alias for image.TapeFile, kept here so callers working in
// tape-shaped code don't need to import the image package directly for
// this one type.
type File = image.TapeFile

// Image is an alias for image.TapeImage.
type Image = image.TapeImage
