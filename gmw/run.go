//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/p2p"
	"github.com/markkurossi/beaver/share"
)

var (
	_ Channel = &p2p.Conn{}
)

// Channel delivers the parties' messages to each other. It must be
// reliable, ordered, and authenticated; the protocol does not detect
// lost or modified messages. Each bit is sent as one byte.
type Channel interface {
	SendByte(val byte) error
	ReceiveByte() (byte, error)
	Flush() error
}

// Run runs the protocol for the party over the channel and returns
// the output bit. Alice sends first and then receives in every
// exchange and Bob receives first and then sends, so the exchanges
// need no buffering in the channel.
func Run(ctx context.Context, p *Party, ch Channel) (share.Bit, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("party", p.Role().String())
	circ := p.State().Circuit()
	peer := p.Role().Peer()

	// Secret share inputs.
	bits, err := p.SendInputShare()
	if err != nil {
		return 0, err
	}
	peerBits, err := exchange(p.Role(), ch, bits, circ.Inputs[peer].Size)
	if err != nil {
		return 0, fmt.Errorf("input exchange: %w", err)
	}
	if err := p.ReceiveInputShare(peerBits); err != nil {
		return 0, err
	}
	log.V(1).Info("inputs shared")

	// Evaluate circuit.
	for round := 0; round < circ.NumRounds(); round++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		bit, err := p.Send()
		if err != nil {
			return 0, err
		}
		peerBits, err := exchange(p.Role(), ch, []share.Bit{bit}, 1)
		if err != nil {
			return 0, fmt.Errorf("round %d: %w", round+1, err)
		}
		if err := p.Receive(peerBits[0]); err != nil {
			return 0, err
		}
	}
	log.V(1).Info("circuit evaluated", "rounds", p.Round())

	// Share outputs.
	bits, err = p.SendOutputShare()
	if err != nil {
		return 0, err
	}
	peerBits, err = exchange(p.Role(), ch, bits, circ.Outputs.Size())
	if err != nil {
		return 0, fmt.Errorf("output exchange: %w", err)
	}
	if err := p.ReceiveOutputShare(peerBits); err != nil {
		return 0, err
	}
	return p.Output()
}

func exchange(role Role, ch Channel, bits []share.Bit, n int) (
	[]share.Bit, error) {

	if role == Alice {
		if err := sendBits(ch, bits); err != nil {
			return nil, err
		}
		return receiveBits(ch, n)
	}
	result, err := receiveBits(ch, n)
	if err != nil {
		return nil, err
	}
	return result, sendBits(ch, bits)
}

func sendBits(ch Channel, bits []share.Bit) error {
	for _, bit := range bits {
		if err := ch.SendByte(byte(bit)); err != nil {
			return err
		}
	}
	return ch.Flush()
}

func receiveBits(ch Channel, n int) ([]share.Bit, error) {
	result := make([]share.Bit, n)
	for i := 0; i < n; i++ {
		b, err := ch.ReceiveByte()
		if err != nil {
			return nil, err
		}
		bit, err := share.ParseBit(uint(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		result[i] = bit
	}
	return result, nil
}

// Evaluate evaluates the two-party circuit in memory with a fresh
// dealer. Both parties are stepped in lock-step and every message is
// delivered before either party advances.
func Evaluate(ctx context.Context, config *env.Config, circ *circuit.Circuit,
	aliceInput, bobInput uint64) (share.Bit, error) {

	alice, bob, err := newParties(config, circ, aliceInput, bobInput)
	if err != nil {
		return 0, err
	}

	a, err := alice.SendInputShare()
	if err != nil {
		return 0, err
	}
	b, err := bob.SendInputShare()
	if err != nil {
		return 0, err
	}
	if err := alice.ReceiveInputShare(b); err != nil {
		return 0, err
	}
	if err := bob.ReceiveInputShare(a); err != nil {
		return 0, err
	}

	for round := 0; round < circ.NumRounds(); round++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		a, err := alice.Send()
		if err != nil {
			return 0, err
		}
		b, err := bob.Send()
		if err != nil {
			return 0, err
		}
		if err := alice.Receive(b); err != nil {
			return 0, err
		}
		if err := bob.Receive(a); err != nil {
			return 0, err
		}
	}

	a, err = alice.SendOutputShare()
	if err != nil {
		return 0, err
	}
	b, err = bob.SendOutputShare()
	if err != nil {
		return 0, err
	}
	if err := alice.ReceiveOutputShare(b); err != nil {
		return 0, err
	}
	if err := bob.ReceiveOutputShare(a); err != nil {
		return 0, err
	}

	return agree(alice, bob)
}

// EvaluatePipe evaluates the two-party circuit with Alice and Bob
// running Run in their own goroutines, connected with p2p.Pipe.
func EvaluatePipe(ctx context.Context, config *env.Config,
	circ *circuit.Circuit, aliceInput, bobInput uint64) (
	share.Bit, p2p.IOStats, error) {

	stats := p2p.NewIOStats()

	alice, bob, err := newParties(config, circ, aliceInput, bobInput)
	if err != nil {
		return 0, stats, err
	}
	ca, cb := p2p.Pipe()

	ch := make(chan error)
	go func() {
		_, err := Run(ctx, bob, cb)
		if err != nil {
			// Unblock Alice.
			cb.Close()
		}
		ch <- err
	}()

	_, err = Run(ctx, alice, ca)
	if err != nil {
		ca.Close()
	}
	bobErr := <-ch

	stats = ca.Stats.Add(cb.Stats)
	if err != nil {
		return 0, stats, err
	}
	if bobErr != nil {
		return 0, stats, bobErr
	}
	ca.Close()
	cb.Close()

	bit, err := agree(alice, bob)
	return bit, stats, err
}

func newParties(config *env.Config, circ *circuit.Circuit,
	aliceInput, bobInput uint64) (*Party, *Party, error) {

	dealer := NewDealer(config)
	if err := dealer.Init(circ.NumInteractive()); err != nil {
		return nil, nil, err
	}
	ra, err := dealer.RandFor(Alice)
	if err != nil {
		return nil, nil, err
	}
	rb, err := dealer.RandFor(Bob)
	if err != nil {
		return nil, nil, err
	}
	alice, err := NewParty(config, Alice, circ, aliceInput, ra)
	if err != nil {
		return nil, nil, err
	}
	bob, err := NewParty(config, Bob, circ, bobInput, rb)
	if err != nil {
		return nil, nil, err
	}
	return alice, bob, nil
}

func agree(alice, bob *Party) (share.Bit, error) {
	a, err := alice.Output()
	if err != nil {
		return 0, err
	}
	b, err := bob.Output()
	if err != nil {
		return 0, err
	}
	if a != b {
		return 0, fmt.Errorf("output mismatch: %v=%v, %v=%v",
			Alice, a, Bob, b)
	}
	return a, nil
}
