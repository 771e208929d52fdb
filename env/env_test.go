//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package env

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestPRGDeterministic(t *testing.T) {
	var a, b [64]byte

	NewPRG([]byte("seed")).Read(a[:])
	NewPRG([]byte("seed")).Read(b[:])
	if !bytes.Equal(a[:], b[:]) {
		t.Errorf("same seed produced different streams")
	}

	NewPRG([]byte("other")).Read(b[:])
	if bytes.Equal(a[:], b[:]) {
		t.Errorf("different seeds produced the same stream")
	}
}

func TestPRGStream(t *testing.T) {
	var whole [48]byte
	NewPRG([]byte{1, 2, 3}).Read(whole[:])

	prg := NewPRG([]byte{1, 2, 3})
	var parts []byte
	for i := 0; i < 3; i++ {
		var buf [16]byte
		prg.Read(buf[:])
		parts = append(parts, buf[:]...)
	}
	if !bytes.Equal(whole[:], parts) {
		t.Errorf("chunked reads differ from one read")
	}
}

func TestConfigDefaults(t *testing.T) {
	var config *Config
	if config.GetRandom() != rand.Reader {
		t.Errorf("nil config: expected crypto/rand")
	}
	// Must not panic.
	config.GetLogger().Info("discarded")

	prg := NewPRG(nil)
	config = &Config{
		Rand: prg,
	}
	if config.GetRandom() != prg {
		t.Errorf("configured random source not returned")
	}
}

func TestDerivePRG(t *testing.T) {
	seed := []byte("demo")
	labels := []string{"dealer", "Alice", "Bob"}

	streams := make([][]byte, len(labels))
	for i, label := range labels {
		streams[i] = make([]byte, 32)
		DerivePRG(seed, label).Read(streams[i])

		var again [32]byte
		DerivePRG(seed, label).Read(again[:])
		if !bytes.Equal(streams[i], again[:]) {
			t.Errorf("%s: stream is not deterministic", label)
		}
	}
	for i := range streams {
		for j := i + 1; j < len(streams); j++ {
			if bytes.Equal(streams[i], streams[j]) {
				t.Errorf("%s and %s streams are equal", labels[i], labels[j])
			}
		}
	}
	var plain [32]byte
	NewPRG(seed).Read(plain[:])
	for i, stream := range streams {
		if bytes.Equal(stream, plain[:]) {
			t.Errorf("%s stream equals the unlabeled stream", labels[i])
		}
	}
	// The label and the seed are not concatenated ambiguously.
	var a, b [32]byte
	DerivePRG([]byte("bc"), "a").Read(a[:])
	DerivePRG([]byte("c"), "ab").Read(b[:])
	if bytes.Equal(a[:], b[:]) {
		t.Errorf("label boundary is ambiguous")
	}
}
