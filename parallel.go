// parallel.go - Concurrent bulk encryption.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

package salsa20

import (
	"runtime"
	"sync"
)

// EncryptParallel is Encrypt with the keystream XOR fanned out over a
// pool of goroutines.  Every keystream block depends only on its counter
// value, so the message is split into block aligned shards and each shard
// is seeked to its own counter, making the output byte for byte identical
// to Encrypt.  workers <= 0 selects GOMAXPROCS.
func EncryptParallel(key, message, nonce []byte, counter uint64, workers int) ([]byte, error) {
	switch len(key) {
	case KeySize, KeySize128:
	default:
		return nil, ErrInvalidKey
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonce
	}
	nrBlocks := blocksFor(len(message))
	if err := checkCounter(counter, nrBlocks); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > nrBlocks {
		workers = nrBlocks
	}
	if workers <= 1 {
		return Encrypt(key, message, nonce, counter)
	}

	dst := make([]byte, len(message))
	errs := make([]error, workers)

	var wg sync.WaitGroup
	base, extra := nrBlocks/workers, nrBlocks%workers
	startBlock := 0
	for w := 0; w < workers; w++ {
		cnt := base
		if w < extra {
			cnt++
		}
		lo := startBlock * BlockSize
		hi := lo + cnt*BlockSize
		if hi > len(message) {
			hi = len(message)
		}

		wg.Add(1)
		go func(w int, blockNr uint64, lo, hi int) {
			defer wg.Done()

			var c Cipher
			if err := c.ReKey(key, nonce); err != nil {
				errs[w] = err
				return
			}
			defer c.Reset()

			c.Seek(counter + blockNr)
			c.XORKeyStream(dst[lo:hi], message[lo:hi])
		}(w, uint64(startBlock), lo, hi)

		startBlock += cnt
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// DecryptParallel is the concurrent variant of Decrypt, and like Decrypt
// is the identical operation to its encrypting counterpart.
func DecryptParallel(key, ciphertext, nonce []byte, counter uint64, workers int) ([]byte, error) {
	return EncryptParallel(key, ciphertext, nonce, counter, workers)
}
