// xcrypto_test.go - Cross checks against the x/crypto reference.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

package salsa20

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/crypto/salsa20/salsa"
)

// referenceBlock asks the x/crypto Salsa20 core for the keystream block
// selected by the raw 16 byte nonce||counter field.  The reference
// advances the counter half of its field little endian while this
// implementation serializes it MSB first, so the comparison hands the
// reference one explicit field per block instead of letting it count.
func referenceBlock(key *[32]byte, nonce []byte, counter uint64) []byte {
	var field [16]byte
	copy(field[0:8], nonce)
	binary.BigEndian.PutUint64(field[8:16], counter)

	out := make([]byte, BlockSize)
	salsa.XORKeyStream(out, make([]byte, BlockSize), &field, key)
	return out
}

func TestReferenceBlocks(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	nonce := randomNonce(t)

	counters := []uint64{
		0, 1, 2, 255, 256, 1 << 31, 1 << 32,
		// Past the reference JavaScript 2^53 - 1 numeric ceiling; the
		// full 64 bit range is supported here.
		1<<53 - 1, 1 << 53, 1<<60 + 3, math.MaxUint64,
	}
	for _, counter := range counters {
		ks, err := GenerateKeystream(key[:], BlockSize, nonce, counter)
		if err != nil {
			t.Fatalf("GenerateKeystream(%d) failed: %v", counter, err)
		}
		if expected := referenceBlock(&key, nonce, counter); !bytes.Equal(ks, expected) {
			t.Fatalf("counter %d: got %x expected %x", counter, ks, expected)
		}
	}
}

func TestReferenceSingleBlockMessages(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	nonce := randomNonce(t)

	for _, sz := range []int{1, 2, 31, 32, 63, 64} {
		msg := make([]byte, sz)
		if _, err := rand.Read(msg); err != nil {
			t.Fatalf("failed to generate message: %v", err)
		}

		ct, err := Encrypt(key[:], msg, nonce, 0)
		if err != nil {
			t.Fatalf("Encrypt(%d) failed: %v", sz, err)
		}

		var field [16]byte
		copy(field[0:8], nonce)
		expected := make([]byte, sz)
		salsa.XORKeyStream(expected, msg, &field, &key)
		if !bytes.Equal(ct, expected) {
			t.Fatalf("%d byte message: got %x expected %x", sz, ct, expected)
		}
	}
}

func TestReferenceMultiBlock(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	nonce := randomNonce(t)

	const start = uint64(9)
	for _, sz := range []int{200, 640} {
		ks, err := GenerateKeystream(key[:], sz, nonce, start)
		if err != nil {
			t.Fatalf("GenerateKeystream(%d) failed: %v", sz, err)
		}
		for b := 0; b*BlockSize < len(ks); b++ {
			expected := referenceBlock(&key, nonce, start+uint64(b))
			if !bytes.Equal(ks[b*BlockSize:(b+1)*BlockSize], expected) {
				t.Fatalf("length %d block %d diverges from the reference", sz, b)
			}
		}
	}
}
