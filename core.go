// core.go - Salsa20 core transform.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

package salsa20

import (
	"encoding/binary"
	"math/bits"
)

const (
	// Salsa20/20: 10 double rounds, 20 rounds total.  The reduced round
	// variants (Salsa20/12, Salsa20/8) are not supported.
	coreRounds = 20
)

var (
	// The constant "expand 32-byte k" as little endian uint32s.
	sigma = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

	// The constant "expand 16-byte k" as little endian uint32s.
	tau = [4]uint32{0x61707865, 0x3120646e, 0x79622d36, 0x6b206574}
)

func rotl(x uint32, n uint) uint32 {
	return (x << n) | (x >> (32 - n))
}

// quarterRound mixes four words.  z1, z2 and z3 each depend on the
// previous result, so the chain is strictly sequential.
func quarterRound(y0, y1, y2, y3 uint32) (z0, z1, z2, z3 uint32) {
	z1 = y1 ^ rotl(y0+y3, 7)
	z2 = y2 ^ rotl(z1+y0, 9)
	z3 = y3 ^ rotl(z2+z1, 13)
	z0 = y0 ^ rotl(z3+z2, 18)
	return
}

// rowRound quarter rounds each row of the state, rotated so that the
// diagonal word leads.  The four groups touch disjoint words, so the in
// place update cannot feed a later group stale input.
func rowRound(x *[16]uint32) {
	x[0], x[1], x[2], x[3] = quarterRound(x[0], x[1], x[2], x[3])
	x[5], x[6], x[7], x[4] = quarterRound(x[5], x[6], x[7], x[4])
	x[10], x[11], x[8], x[9] = quarterRound(x[10], x[11], x[8], x[9])
	x[15], x[12], x[13], x[14] = quarterRound(x[15], x[12], x[13], x[14])
}

// columnRound is rowRound on the transposed state.
func columnRound(x *[16]uint32) {
	x[0], x[4], x[8], x[12] = quarterRound(x[0], x[4], x[8], x[12])
	x[5], x[9], x[13], x[1] = quarterRound(x[5], x[9], x[13], x[1])
	x[10], x[14], x[2], x[6] = quarterRound(x[10], x[14], x[2], x[6])
	x[15], x[3], x[7], x[11] = quarterRound(x[15], x[3], x[7], x[11])
}

func doubleRound(x *[16]uint32) {
	columnRound(x)
	rowRound(x)
}

// coreWords runs the Salsa20 hash over a decoded input block: 10 double
// rounds followed by the feed forward addition of the input words.
func coreWords(input, out *[16]uint32) {
	x := *input
	for i := 0; i < coreRounds; i += 2 {
		doubleRound(&x)
	}
	for i, v := range x {
		out[i] = v + input[i]
	}
}

// hashBlock computes the 64 byte Salsa20 hash of in.
func hashBlock(in, out *[BlockSize]byte) {
	var input, z [16]uint32
	for i := range input {
		input[i] = binary.LittleEndian.Uint32(in[4*i:])
	}
	coreWords(&input, &z)
	for i, v := range z {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
}

// counterWords returns the two state words covering the counter half of
// the nonce||counter field.  The field serializes the counter most
// significant byte first while state words are decoded little endian;
// the byte reversal converts between the two conventions.
func counterWords(c uint64) (uint32, uint32) {
	return bits.ReverseBytes32(uint32(c >> 32)), bits.ReverseBytes32(uint32(c))
}

// blocksRef generates nrBlocks blocks of keystream for successive counter
// values, XORing them into out when in is non-nil and writing the raw
// keystream otherwise.
func blocksRef(x *[16]uint32, counter uint64, in, out []byte, nrBlocks int) {
	var block [BlockSize]byte
	for n := 0; n < nrBlocks; n++ {
		x[8], x[9] = counterWords(counter)
		counter++

		var z [16]uint32
		coreWords(x, &z)
		for i, v := range z {
			binary.LittleEndian.PutUint32(block[4*i:], v)
		}

		if in != nil {
			for i, v := range in[:BlockSize] {
				out[i] = v ^ block[i]
			}
			in = in[BlockSize:]
		} else {
			copy(out[:BlockSize], block[:])
		}
		out = out[BlockSize:]
	}
}
