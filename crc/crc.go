// Package crc implements the CRC-32 variant used to seal Ogg pages.
//
// The algorithm is table-driven with polynomial 0x04C11DB7, a left-shifting
// register, zero initial value and no final XOR. This is NOT the reflected
// IEEE CRC-32 provided by hash/crc32; the two produce different checksums
// for the same input and are not interchangeable on the wire.
package crc

// Polynomial is the generator polynomial of the page checksum.
const Polynomial uint32 = 0x04C11DB7

var table = makeTable()

func makeTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ Polynomial
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}

	return t
}

// Checksum computes the page checksum of data.
func Checksum(data []byte) uint32 {
	return Update(0, data)
}

// Update extends crc with data, byte at a time. It allows a checksum to be
// computed incrementally over several slices:
//
//	sum := crc.Update(0, header)
//	sum = crc.Update(sum, payload)
func Update(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = (crc << 8) ^ table[byte(crc>>24)^b]
	}

	return crc
}
