// salsa20.go - A Salsa20 stream cipher implementation.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

// Package salsa20 implements the Salsa20/20 stream cipher: a 16 or 32
// byte key, an 8 byte nonce and a 64 bit block counter keying a
// pseudorandom keystream that is XORed with the plaintext.  Encryption
// and decryption are the same operation.
//
// Nonce uniqueness per key is the caller's responsibility.  Reusing a
// (key, nonce) pair over overlapping counter ranges for two different
// messages destroys confidentiality.
package salsa20

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"math"
)

const (
	// KeySize is the Salsa20 256 bit key size in bytes.
	KeySize = 32

	// KeySize128 is the Salsa20 128 bit key size in bytes.
	KeySize128 = 16

	// NonceSize is the Salsa20 nonce size in bytes.
	NonceSize = 8

	// BlockSize is the Salsa20 block size in bytes.
	BlockSize = 64
)

var (
	// ErrInvalidKey is the error returned when the key is invalid.
	ErrInvalidKey = errors.New("key length must be KeySize or KeySize128 bytes")

	// ErrInvalidNonce is the error returned when the nonce is invalid.
	ErrInvalidNonce = errors.New("nonce length must be NonceSize bytes")

	// ErrInvalidCounter is the error returned when the block counter
	// would pass the end of its 64 bit range before covering the
	// requested length.
	ErrInvalidCounter = errors.New("block counter out of range")
)

// A Cipher is an instance of Salsa20 using a particular key and nonce.
type Cipher struct {
	state [16]uint32

	counter   uint64
	exhausted bool

	buf [BlockSize]byte
	off int
}

// Reset zeros the key data so that it will no longer appear in the
// process's memory.
func (c *Cipher) Reset() {
	for i := range c.state {
		c.state[i] = 0
	}
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.counter = 0
	c.exhausted = false
	c.off = BlockSize
}

// ReKey reinitializes the Salsa20 instance with the provided key and
// nonce, with the block counter rewound to zero.
func (c *Cipher) ReKey(key, nonce []byte) error {
	if len(nonce) != NonceSize {
		return ErrInvalidNonce
	}

	var k0, k1 []byte
	var constants *[4]uint32
	switch len(key) {
	case KeySize:
		k0, k1 = key[0:16], key[16:32]
		constants = &sigma
	case KeySize128:
		// A 16 byte key occupies both key slots, marked by the tau
		// constants instead of sigma.
		k0, k1 = key[0:16], key[0:16]
		constants = &tau
	default:
		return ErrInvalidKey
	}

	c.Reset()
	c.state[0] = constants[0]
	c.state[1] = binary.LittleEndian.Uint32(k0[0:4])
	c.state[2] = binary.LittleEndian.Uint32(k0[4:8])
	c.state[3] = binary.LittleEndian.Uint32(k0[8:12])
	c.state[4] = binary.LittleEndian.Uint32(k0[12:16])
	c.state[5] = constants[1]
	c.state[6] = binary.LittleEndian.Uint32(nonce[0:4])
	c.state[7] = binary.LittleEndian.Uint32(nonce[4:8])
	// state[8] and state[9] are the counter words, filled in per block.
	c.state[10] = constants[2]
	c.state[11] = binary.LittleEndian.Uint32(k1[0:4])
	c.state[12] = binary.LittleEndian.Uint32(k1[4:8])
	c.state[13] = binary.LittleEndian.Uint32(k1[8:12])
	c.state[14] = binary.LittleEndian.Uint32(k1[12:16])
	c.state[15] = constants[3]
	return nil
}

// Seek repositions the keystream at the start of the given 64 byte block,
// discarding any buffered keystream.  Block 0 is the beginning of the
// stream; blocks are independent, so seeking is exact and cheap.
func (c *Cipher) Seek(counter uint64) {
	c.counter = counter
	c.exhausted = false
	c.off = BlockSize
}

// blocks produces nrBlocks blocks of keystream and advances the counter,
// XORing with in when in is non-nil.  The counter never silently wraps.
func (c *Cipher) blocks(in, out []byte, nrBlocks int) {
	if c.exhausted || uint64(nrBlocks)-1 > math.MaxUint64-c.counter {
		panic("salsa20: block counter exhausted")
	}
	blocksRef(&c.state, c.counter, in, out, nrBlocks)
	c.counter += uint64(nrBlocks)
	if c.counter == 0 {
		c.exhausted = true
	}
}

// XORKeyStream sets dst to the result of XORing src with the key stream.
// Dst and src may be the same slice but otherwise should not overlap.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		src = src[:len(dst)]
	}

	for remaining := len(src); remaining > 0; {
		// Process multiple blocks at once.
		if c.off == BlockSize {
			nrBlocks := remaining / BlockSize
			directBytes := nrBlocks * BlockSize
			if nrBlocks > 0 {
				c.blocks(src, dst, nrBlocks)
				remaining -= directBytes
				if remaining == 0 {
					return
				}
				dst = dst[directBytes:]
				src = src[directBytes:]
			}

			// If there's a partial block, generate 1 block of keystream
			// into the internal buffer.
			c.blocks(nil, c.buf[:], 1)
			c.off = 0
		}

		// Process partial blocks from the buffered keystream.
		toXor := BlockSize - c.off
		if remaining < toXor {
			toXor = remaining
		}
		if toXor > 0 {
			for i, v := range src[:toXor] {
				dst[i] = v ^ c.buf[c.off+i]
			}
			dst = dst[toXor:]
			src = src[toXor:]

			remaining -= toXor
			c.off += toXor
		}
	}
}

// KeyStream sets dst to the raw keystream.
func (c *Cipher) KeyStream(dst []byte) {
	for remaining := len(dst); remaining > 0; {
		// Process multiple blocks at once.
		if c.off == BlockSize {
			nrBlocks := remaining / BlockSize
			directBytes := nrBlocks * BlockSize
			if nrBlocks > 0 {
				c.blocks(nil, dst, nrBlocks)
				remaining -= directBytes
				if remaining == 0 {
					return
				}
				dst = dst[directBytes:]
			}

			// If there's a partial block, generate 1 block of keystream
			// into the internal buffer.
			c.blocks(nil, c.buf[:], 1)
			c.off = 0
		}

		// Process partial blocks from the buffered keystream.
		toCopy := BlockSize - c.off
		if remaining < toCopy {
			toCopy = remaining
		}
		if toCopy > 0 {
			copy(dst[:toCopy], c.buf[c.off:c.off+toCopy])
			dst = dst[toCopy:]
			remaining -= toCopy
			c.off += toCopy
		}
	}
}

// NewCipher returns a new Salsa20 instance positioned at block 0.
func NewCipher(key, nonce []byte) (*Cipher, error) {
	c := new(Cipher)
	if err := c.ReKey(key, nonce); err != nil {
		return nil, err
	}
	return c, nil
}

// blocksFor returns the number of blocks covering length bytes.
func blocksFor(length int) int {
	nrBlocks := length / BlockSize
	if length%BlockSize != 0 {
		nrBlocks++
	}
	return nrBlocks
}

// checkCounter rejects a start counter that cannot cover nrBlocks blocks
// without passing 2^64 - 1.
func checkCounter(counter uint64, nrBlocks int) error {
	if nrBlocks > 0 && uint64(nrBlocks)-1 > math.MaxUint64-counter {
		return ErrInvalidCounter
	}
	return nil
}

// GenerateKeystream returns the raw keystream for the given key, nonce
// and start counter, as the smallest whole number of 64 byte blocks
// covering length bytes.  The output is always block aligned and may
// exceed length; callers wanting an exact length truncate.
func GenerateKeystream(key []byte, length int, nonce []byte, counter uint64) ([]byte, error) {
	var c Cipher
	if err := c.ReKey(key, nonce); err != nil {
		return nil, err
	}
	defer c.Reset()

	nrBlocks := blocksFor(length)
	if err := checkCounter(counter, nrBlocks); err != nil {
		return nil, err
	}

	c.Seek(counter)
	dst := make([]byte, nrBlocks*BlockSize)
	c.KeyStream(dst)
	return dst, nil
}

// Encrypt XORs message with the keystream selected by key, nonce and the
// start counter, and returns the ciphertext.
func Encrypt(key, message, nonce []byte, counter uint64) ([]byte, error) {
	var c Cipher
	if err := c.ReKey(key, nonce); err != nil {
		return nil, err
	}
	defer c.Reset()

	if err := checkCounter(counter, blocksFor(len(message))); err != nil {
		return nil, err
	}

	c.Seek(counter)
	dst := make([]byte, len(message))
	c.XORKeyStream(dst, message)
	return dst, nil
}

// Decrypt recovers a message encrypted with the same key, nonce and start
// counter.  Salsa20 encryption is XOR with the keystream, so this is the
// identical operation to Encrypt.
func Decrypt(key, ciphertext, nonce []byte, counter uint64) ([]byte, error) {
	return Encrypt(key, ciphertext, nonce, counter)
}

var _ cipher.Stream = (*Cipher)(nil)
