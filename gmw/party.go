//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/share"
	"github.com/markkurossi/text/superscript"
)

// Party implements a protocol party. It holds the party's State and
// replaces it with the successor state on each call. A Party must be
// used from a single goroutine.
type Party struct {
	state State
	log   logr.Logger
}

// NewParty creates a new party for the role. See NewState for the
// arguments.
func NewParty(config *env.Config, role Role, circ *circuit.Circuit,
	input uint64, triples []TripleShare) (*Party, error) {

	state, err := NewState(config, role, circ, input, triples)
	if err != nil {
		return nil, err
	}
	p := &Party{
		state: state,
	}
	p.log = config.GetLogger().WithName(role.String())
	p.log.V(1).Info("party created", "circuit", circ.String(),
		"triples", len(triples))
	return p, nil
}

func (p *Party) String() string {
	return fmt.Sprintf("P%s", superscript.Itoa(int(p.state.role)))
}

// Role returns the party role.
func (p *Party) Role() Role {
	return p.state.Role()
}

// State returns the current protocol state.
func (p *Party) State() State {
	return p.state
}

// Round returns the number of completed message rounds.
func (p *Party) Round() int {
	return p.state.Round()
}

// SendInputShare returns the peer halves of the party's input.
func (p *Party) SendInputShare() ([]share.Bit, error) {
	state, bits, err := p.state.SendInputShare()
	p.state = state
	if err != nil {
		p.log.Error(err, "input share send")
		return nil, err
	}
	p.log.V(1).Info("input shared", "bits", len(bits))
	return bits, nil
}

// ReceiveInputShare stores the party's halves of the peer's input.
func (p *Party) ReceiveInputShare(bits []share.Bit) error {
	state, err := p.state.ReceiveInputShare(bits)
	p.state = state
	if err != nil {
		p.log.Error(err, "input share receive")
		return err
	}
	p.log.V(1).Info("input received", "bits", len(bits),
		"phase", p.state.Phase().String())
	return nil
}

// Send returns the party's message for the current round.
func (p *Party) Send() (share.Bit, error) {
	state, bit, err := p.state.Send()
	p.state = state
	if err != nil {
		p.log.Error(err, "send")
		return 0, err
	}
	p.log.V(2).Info("send", "round", p.state.Round()+1,
		"gate", p.state.gate)
	return bit, nil
}

// Receive consumes the peer's message for the current round.
func (p *Party) Receive(bit share.Bit) error {
	state, err := p.state.Receive(bit)
	p.state = state
	if err != nil {
		p.log.Error(err, "receive")
		return err
	}
	p.log.V(2).Info("receive", "round", p.state.Round(),
		"phase", p.state.Phase().String())
	return nil
}

// SendOutputShare returns the party's shares of the output wires.
func (p *Party) SendOutputShare() ([]share.Bit, error) {
	state, bits, err := p.state.SendOutputShare()
	p.state = state
	if err != nil {
		p.log.Error(err, "output share send")
		return nil, err
	}
	return bits, nil
}

// ReceiveOutputShare reconstructs the output from the peer's output
// shares.
func (p *Party) ReceiveOutputShare(bits []share.Bit) error {
	state, err := p.state.ReceiveOutputShare(bits)
	p.state = state
	if err != nil {
		p.log.Error(err, "output share receive")
		return err
	}
	p.log.V(1).Info("output reconstructed",
		"done", p.state.HasOutput())
	return nil
}

// HasOutput tests if the output has been reconstructed.
func (p *Party) HasOutput() bool {
	return p.state.HasOutput()
}

// Output returns the first output bit. It fails with
// ErrProtocolSequence until HasOutput returns true.
func (p *Party) Output() (share.Bit, error) {
	return p.state.Output()
}

// Outputs returns all output bits.
func (p *Party) Outputs() ([]share.Bit, error) {
	return p.state.Outputs()
}
