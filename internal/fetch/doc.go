// Package fetch downloads image files referenced by converted pages.
//
// Downloads run concurrently with a bounded worker count. A failed
// download is logged and counted but never aborts the run; the vault is
// still usable with missing images.
package fetch
