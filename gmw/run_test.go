//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"context"
	"errors"
	"testing"

	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/share"
)

func TestEvaluatePipe(t *testing.T) {
	circ := circuit.Compatibility()

	for i := uint64(0); i < 8; i++ {
		for j := uint64(0); j < 8; j++ {
			bit, stats, err := EvaluatePipe(context.Background(), nil,
				circ, i, j)
			if err != nil {
				t.Fatalf("EvaluatePipe(%03b, %03b): %v", i, j, err)
			}
			if uint(bit) != circuit.TruthTable[i][j] {
				t.Errorf("EvaluatePipe(%03b, %03b)=%v, expected %v",
					i, j, bit, circuit.TruthTable[i][j])
			}
			// Each party sends 3 input bits, 10 round bits, and 1
			// output bit.
			if stats.Sent.Load() != 2*(3+10+1) {
				t.Errorf("sent %d bytes", stats.Sent.Load())
			}
		}
	}
}

func TestRunCanceled(t *testing.T) {
	circ := circuit.Compatibility()
	alice, bob, err := newParties(nil, circ, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ca, cb := p2p.Pipe()
	ch := make(chan error)
	go func() {
		_, err := Run(ctx, bob, cb)
		ch <- err
	}()
	_, err = Run(ctx, alice, ca)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Alice: %v", err)
	}
	if err := <-ch; !errors.Is(err, context.Canceled) {
		t.Errorf("Bob: %v", err)
	}
}

func TestRunInvalidMessage(t *testing.T) {
	circ := circuit.Compatibility()
	_, bob, err := newParties(nil, circ, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	ca, cb := p2p.Pipe()
	go func() {
		// Valid input shares followed by an invalid round 1 message.
		for _, b := range []byte{0, 1, 0, 5} {
			ca.SendByte(b)
		}
		ca.Flush()
	}()

	_, err = Run(context.Background(), bob, cb)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("invalid message accepted: %v", err)
	}
}

func TestRunOverChannel(t *testing.T) {
	circ := circuit.Compatibility()
	alice, bob, err := newParties(seeded("run"), circ, 0b100, 0b101)
	if err != nil {
		t.Fatal(err)
	}
	ca, cb := p2p.Pipe()
	ch := make(chan interface{})
	go func() {
		bit, err := Run(context.Background(), bob, cb)
		if err != nil {
			ch <- err
			return
		}
		ch <- bit
	}()
	bit, err := Run(context.Background(), alice, ca)
	if err != nil {
		t.Fatal(err)
	}
	switch ret := (<-ch).(type) {
	case error:
		t.Fatal(ret)
	case share.Bit:
		if ret != bit || bit != 0 {
			t.Errorf("A- vs A+: alice=%v, bob=%v, expected 0", bit, ret)
		}
	default:
		t.Fatalf("unexpected result: %v(%T)", ret, ret)
	}
}
