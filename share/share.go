//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package share implements XOR based 2-out-of-2 secret sharing of
// single bits over GF(2).
package share

import (
	"fmt"
	"io"
)

// Bit is an element of GF(2). Addition is XOR and multiplication is
// AND.
type Bit uint8

func (b Bit) String() string {
	return fmt.Sprintf("%d", b&1)
}

// ParseBit converts the integer value v into a Bit. Only 0 and 1 are
// accepted.
func ParseBit(v uint) (Bit, error) {
	if v > 1 {
		return 0, fmt.Errorf("invalid bit value %d", v)
	}
	return Bit(v), nil
}

// RandomBit draws a uniformly random bit from rand.
func RandomBit(rand io.Reader) (Bit, error) {
	var buf [1]byte
	_, err := io.ReadFull(rand, buf[:])
	if err != nil {
		return 0, err
	}
	return Bit(buf[0] & 1), nil
}

// Share holds both halves of a shared bit. The own half is kept by
// its creator and the peer half is given to the other party. Either
// half alone is uniformly distributed.
type Share struct {
	own  Bit
	peer Bit
}

// Split secret shares the value with a fresh random own half.
func Split(rand io.Reader, value Bit) (Share, error) {
	own, err := RandomBit(rand)
	if err != nil {
		return Share{}, err
	}
	return Share{
		own:  own,
		peer: (value & 1) ^ own,
	}, nil
}

// Own returns the own half of the share.
func (s Share) Own() Bit {
	return s.own
}

// Peer returns the peer half of the share.
func (s Share) Peer() Bit {
	return s.peer
}

// Value reconstructs the shared bit.
func (s Share) Value() Bit {
	return s.own ^ s.peer
}

func (s Share) String() string {
	return fmt.Sprintf("%v⊕%v", s.own, s.peer)
}

// Half is the own half of a share whose peer half has not been
// received yet. It cannot be reconstructed before it is joined with
// the peer half.
type Half struct {
	own Bit
}

// NewHalf creates a half share from the own value.
func NewHalf(own Bit) Half {
	return Half{
		own: own & 1,
	}
}

// Own returns the own half.
func (h Half) Own() Bit {
	return h.own
}

// Join combines the half with the peer's half.
func (h Half) Join(peer Bit) Share {
	return Share{
		own:  h.own,
		peer: peer & 1,
	}
}
