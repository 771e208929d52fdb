//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"fmt"

	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/share"
)

// TripleShare is one party's share of a Beaver triple (u, v, w=u·v).
// The product relation holds only for the XOR of both parties'
// shares.
type TripleShare struct {
	U share.Bit
	V share.Bit
	W share.Bit
}

// Xor adds two triple shares component-wise.
func (t TripleShare) Xor(o TripleShare) TripleShare {
	return TripleShare{
		U: t.U ^ o.U,
		V: t.V ^ o.V,
		W: t.W ^ o.W,
	}
}

func (t TripleShare) String() string {
	return fmt.Sprintf("(%v,%v,%v)", t.U, t.V, t.W)
}

// Dealer implements the trusted dealer that creates the Beaver
// triples for one circuit evaluation.
type Dealer struct {
	config      *env.Config
	initialized bool
	shares      [2][]TripleShare
}

// NewDealer creates a new dealer.
func NewDealer(config *env.Config) *Dealer {
	return &Dealer{
		config: config,
	}
}

// Init creates numAND fresh triples. It must be called exactly once
// for each dealer.
func (d *Dealer) Init(numAND int) error {
	if d.initialized {
		return ErrDealerReused
	}
	if numAND < 0 {
		return fmt.Errorf("invalid number of triples: %d", numAND)
	}
	alice, bob, err := NewTriples(d.config, numAND)
	if err != nil {
		return err
	}
	d.shares[Alice] = alice
	d.shares[Bob] = bob
	d.initialized = true

	return nil
}

// RandFor returns the role's shares of all triples, ordered by the
// gate evaluation order.
func (d *Dealer) RandFor(role Role) ([]TripleShare, error) {
	if !d.initialized {
		return nil, ErrDealerNotReady
	}
	if !role.valid() {
		return nil, fmt.Errorf("invalid role %v", role)
	}
	result := make([]TripleShare, len(d.shares[role]))
	copy(result, d.shares[role])
	return result, nil
}

// NewTriples creates n Beaver triples and returns Alice's and Bob's
// shares of them.
func NewTriples(config *env.Config, n int) (alice, bob []TripleShare,
	err error) {

	rand := config.GetRandom()

	for i := 0; i < n; i++ {
		u, err := share.RandomBit(rand)
		if err != nil {
			return nil, nil, err
		}
		v, err := share.RandomBit(rand)
		if err != nil {
			return nil, nil, err
		}
		us, err := share.Split(rand, u)
		if err != nil {
			return nil, nil, err
		}
		vs, err := share.Split(rand, v)
		if err != nil {
			return nil, nil, err
		}
		ws, err := share.Split(rand, u&v)
		if err != nil {
			return nil, nil, err
		}
		alice = append(alice, TripleShare{
			U: us.Own(),
			V: vs.Own(),
			W: ws.Own(),
		})
		bob = append(bob, TripleShare{
			U: us.Peer(),
			V: vs.Peer(),
			W: ws.Peer(),
		})
	}
	return alice, bob, nil
}

// SendTriples sends the triple shares to a party. Each triple is
// encoded as one byte with bits u, v, and w.
func SendTriples(conn *p2p.Conn, triples []TripleShare) error {
	if err := conn.SendUint32(len(triples)); err != nil {
		return err
	}
	for _, t := range triples {
		err := conn.SendByte(byte(t.U&1) | byte(t.V&1)<<1 | byte(t.W&1)<<2)
		if err != nil {
			return err
		}
	}
	return conn.Flush()
}

// ReceiveTriples receives at most max triple shares from the dealer.
func ReceiveTriples(conn *p2p.Conn, max int) ([]TripleShare, error) {
	n, err := conn.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	if n > max {
		return nil, fmt.Errorf("%w: %d triples, expected at most %d",
			ErrInvalidMessage, n, max)
	}
	result := make([]TripleShare, n)
	for i := 0; i < n; i++ {
		b, err := conn.ReceiveByte()
		if err != nil {
			return nil, err
		}
		if b > 7 {
			return nil, fmt.Errorf("%w: triple %d: %02x",
				ErrInvalidMessage, i, b)
		}
		result[i] = TripleShare{
			U: share.Bit(b & 1),
			V: share.Bit((b >> 1) & 1),
			W: share.Bit((b >> 2) & 1),
		}
	}
	return result, nil
}
