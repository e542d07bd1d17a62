// benchmark_test.go - Salsa20 benchmarks.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

package salsa20

import (
	"crypto/rand"
	"testing"
)

func benchKeyStream(b *testing.B, sz int) {
	key, nonce := make([]byte, KeySize), make([]byte, NonceSize)
	rand.Read(key)
	rand.Read(nonce)

	c, err := NewCipher(key, nonce)
	if err != nil {
		b.Fatalf("NewCipher failed: %v", err)
	}
	defer c.Reset()

	dst := make([]byte, sz)
	b.SetBytes(int64(sz))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Seek(0)
		c.KeyStream(dst)
	}
}

func BenchmarkKeyStream_64(b *testing.B) {
	benchKeyStream(b, 64)
}

func BenchmarkKeyStream_1k(b *testing.B) {
	benchKeyStream(b, 1024)
}

func BenchmarkKeyStream_64k(b *testing.B) {
	benchKeyStream(b, 65536)
}

func BenchmarkXORKeyStream_1k(b *testing.B) {
	key, nonce := make([]byte, KeySize), make([]byte, NonceSize)
	rand.Read(key)
	rand.Read(nonce)

	c, err := NewCipher(key, nonce)
	if err != nil {
		b.Fatalf("NewCipher failed: %v", err)
	}
	defer c.Reset()

	buf := make([]byte, 1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Seek(0)
		c.XORKeyStream(buf, buf)
	}
}

func benchEncryptParallel(b *testing.B, workers int) {
	key, nonce := make([]byte, KeySize), make([]byte, NonceSize)
	rand.Read(key)
	rand.Read(nonce)

	msg := make([]byte, 1<<20)
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncryptParallel(key, msg, nonce, 0, workers); err != nil {
			b.Fatalf("EncryptParallel failed: %v", err)
		}
	}
}

func BenchmarkEncryptParallel_1(b *testing.B) {
	benchEncryptParallel(b, 1)
}

func BenchmarkEncryptParallel_4(b *testing.B) {
	benchEncryptParallel(b, 4)
}
