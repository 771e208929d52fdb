//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package share

import (
	"crypto/rand"
	"testing"

	"github.com/markkurossi/beaver/env"
)

func TestSplit(t *testing.T) {
	for _, b := range []Bit{0, 1} {
		for i := 0; i < 100; i++ {
			s, err := Split(rand.Reader, b)
			if err != nil {
				t.Fatal(err)
			}
			if s.Value() != b {
				t.Fatalf("Split(%v).Value()=%v", b, s.Value())
			}
			if s.Own()^s.Peer() != b {
				t.Fatalf("Split(%v): own=%v, peer=%v", b, s.Own(), s.Peer())
			}
		}
	}
}

func TestHalfJoin(t *testing.T) {
	for own := Bit(0); own < 2; own++ {
		for peer := Bit(0); peer < 2; peer++ {
			s := NewHalf(own).Join(peer)
			if s.Value() != own^peer {
				t.Errorf("%v.Join(%v)=%v", own, peer, s.Value())
			}
		}
	}
}

func TestParseBit(t *testing.T) {
	for v := uint(0); v < 2; v++ {
		b, err := ParseBit(v)
		if err != nil {
			t.Fatalf("ParseBit(%v): %v", v, err)
		}
		if uint(b) != v {
			t.Errorf("ParseBit(%v)=%v", v, b)
		}
	}
	if _, err := ParseBit(2); err == nil {
		t.Errorf("ParseBit(2) succeeded")
	}
}

// chiSquare returns the chi-square statistic of the own halves of n
// splits of value against the uniform distribution.
func chiSquare(t *testing.T, value Bit, n int) float64 {
	prg := env.NewPRG([]byte{byte(value), 'c', 'h', 'i'})

	var counts [2]int
	for i := 0; i < n; i++ {
		s, err := Split(prg, value)
		if err != nil {
			t.Fatal(err)
		}
		counts[s.Own()]++
	}
	expected := float64(n) / 2
	var sum float64
	for _, c := range counts {
		d := float64(c) - expected
		sum += d * d / expected
	}
	return sum
}

func TestOwnUniform(t *testing.T) {
	// Critical value for one degree of freedom at p=0.001.
	const critical = 10.828

	for _, b := range []Bit{0, 1} {
		x2 := chiSquare(t, b, 10000)
		if x2 > critical {
			t.Errorf("own halves of %v not uniform: chi2=%.3f", b, x2)
		}
	}
}
