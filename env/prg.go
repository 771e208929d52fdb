//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

// PRG implements a deterministic io.Reader that outputs the ChaCha20
// keystream. It is meant for reproducible tests and simulations; it
// must not replace crypto/rand in real deployments.
type PRG struct {
	cipher *chacha20.Cipher
}

// NewPRG creates a new PRG. The seed may have any length; the stream
// key is its BLAKE3 hash and the nonce is zero.
func NewPRG(seed []byte) *PRG {
	return newPRG(blake3.Sum256(seed))
}

// DerivePRG creates a PRG whose stream depends on both the seed and
// the label. Processes that share a seed must use distinct labels,
// otherwise each can replay the others' random choices.
func DerivePRG(seed []byte, label string) *PRG {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(label)))

	h := blake3.New()
	h.Write(hdr[:])
	h.Write([]byte(label))
	h.Write(seed)

	var key [32]byte
	h.Sum(key[:0])
	return newPRG(key)
}

func newPRG(key [32]byte) *PRG {
	var nonce [chacha20.NonceSize]byte

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are constant.
		panic(err)
	}
	return &PRG{
		cipher: c,
	}
}

// Read fills data with keystream bytes. It never fails.
func (prg *PRG) Read(data []byte) (int, error) {
	for i := range data {
		data[i] = 0
	}
	prg.cipher.XORKeyStream(data, data)
	return len(data), nil
}
