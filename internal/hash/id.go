// Package hash derives stable stream identifiers from logical stream names.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// SerialID folds the xxHash64 of name into the 32-bit serial number space
// used by page headers. Both halves of the hash contribute so short names
// keep their full dispersion.
func SerialID(name string) uint32 {
	h := ID(name)

	return uint32(h) ^ uint32(h>>32)
}
