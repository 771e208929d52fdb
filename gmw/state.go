//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gmw

import (
	"fmt"

	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/share"
)

// Phase specifies the protocol phase of a party.
type Phase int

// Protocol phases.
const (
	PhaseInput Phase = iota
	PhaseEval
	PhaseOutput
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseInput:  "input",
	PhaseEval:   "eval",
	PhaseOutput: "output",
	PhaseDone:   "done",
}

func (p Phase) String() string {
	name, ok := phaseNames[p]
	if ok {
		return name
	}
	return fmt.Sprintf("{Phase %d}", int(p))
}

// State is the protocol state of one party. The transition methods
// have value receivers: they never modify the receiver and return
// the successor state. A state that has failed returns the same error
// from every further transition.
type State struct {
	role    Role
	circ    *circuit.Circuit
	triples []TripleShare

	// Own shares of all circuit wires.
	wires []share.Bit

	// Peer halves of the own input, sent in the input phase.
	inputPeer  []share.Bit
	inputSent  bool
	inputRecvd bool

	phase  Phase
	round  int
	sent   bool
	gate   int
	triple int

	// Pending masked values of the current interactive gate.
	d share.Half
	e share.Half
	// Reconstructed d after the first round of the gate.
	dValue share.Bit

	outputSent  bool
	outputRecvd bool
	output      []share.Bit

	err error
}

// NewState creates the initial state for the role. The input is
// secret shared with a fresh random own half for each input bit.
// The triples must contain one share for each interactive gate of
// the circuit, in gate order.
func NewState(config *env.Config, role Role, circ *circuit.Circuit,
	input uint64, triples []TripleShare) (State, error) {

	if !role.valid() {
		return State{}, fmt.Errorf("%w: role %v", ErrInvalidInput, role)
	}
	if circ.NumParties() != 2 {
		return State{}, fmt.Errorf("%w: circuit has %d parties, expected 2",
			ErrInvalidInput, circ.NumParties())
	}
	if err := circ.Validate(); err != nil {
		return State{}, err
	}
	size := circ.Inputs[role].Size
	if size > 64 || (size < 64 && input>>size != 0) {
		return State{}, fmt.Errorf("%w: %v input %d does not fit in %d bits",
			ErrInvalidInput, role, input, size)
	}

	rand := config.GetRandom()
	wires := make([]share.Bit, circ.NumWires)
	inputPeer := make([]share.Bit, size)
	ofs := circ.InputOffset(int(role))

	for i := 0; i < size; i++ {
		s, err := share.Split(rand, share.Bit((input>>i)&1))
		if err != nil {
			return State{}, err
		}
		wires[ofs+i] = s.Own()
		inputPeer[i] = s.Peer()
	}

	return State{
		role:      role,
		circ:      circ,
		triples:   append([]TripleShare(nil), triples...),
		wires:     wires,
		inputPeer: inputPeer,
	}, nil
}

// Role returns the party role.
func (s State) Role() Role {
	return s.role
}

// Circuit returns the evaluated circuit.
func (s State) Circuit() *circuit.Circuit {
	return s.circ
}

// Phase returns the current protocol phase.
func (s State) Phase() Phase {
	return s.phase
}

// Round returns the number of completed message rounds.
func (s State) Round() int {
	return s.round
}

// Err returns the error that stopped the protocol or nil. Callers
// that step State values directly use it to inspect a state returned
// by a failed transition; Party returns the error from each call
// instead.
func (s State) Err() error {
	return s.err
}

// HasOutput tests if the output has been reconstructed.
func (s State) HasOutput() bool {
	return s.err == nil && s.phase == PhaseDone
}

// Output returns the first output bit.
func (s State) Output() (share.Bit, error) {
	if !s.HasOutput() {
		return 0, s.sequenceError("output read")
	}
	return s.output[0], nil
}

// Outputs returns all output bits.
func (s State) Outputs() ([]share.Bit, error) {
	if !s.HasOutput() {
		return nil, s.sequenceError("output read")
	}
	return append([]share.Bit(nil), s.output...), nil
}

// SendInputShare returns the peer halves of the party's input bits.
func (s State) SendInputShare() (State, []share.Bit, error) {
	if s.err != nil {
		return s, nil, s.err
	}
	if s.phase != PhaseInput || s.inputSent {
		ns, err := s.fail(s.sequenceError("input share send"))
		return ns, nil, err
	}
	s.inputSent = true
	if s.inputRecvd {
		s = s.startEval()
	}
	return s, append([]share.Bit(nil), s.inputPeer...), nil
}

// ReceiveInputShare stores the party's halves of the peer's input
// bits.
func (s State) ReceiveInputShare(bits []share.Bit) (State, error) {
	if s.err != nil {
		return s, s.err
	}
	if s.phase != PhaseInput || s.inputRecvd {
		return s.fail(s.sequenceError("input share receive"))
	}
	peer := s.role.Peer()
	size := s.circ.Inputs[peer].Size
	if len(bits) != size {
		return s.fail(fmt.Errorf("%w: got %d input shares, expected %d",
			ErrInvalidMessage, len(bits), size))
	}
	if err := checkBits(bits); err != nil {
		return s.fail(err)
	}

	s = s.clone()
	copy(s.wires[s.circ.InputOffset(int(peer)):], bits)
	s.inputRecvd = true
	if s.inputSent {
		s = s.startEval()
	}
	return s, nil
}

// Send returns the party's message for the current round: the own
// share of d=x⊕u in the first round of a gate and the own share of
// e=y⊕v in the second round.
func (s State) Send() (State, share.Bit, error) {
	if s.err != nil {
		return s, 0, s.err
	}
	if s.phase != PhaseEval || s.sent {
		ns, err := s.fail(s.sequenceError("send"))
		return ns, 0, err
	}
	gate := s.circ.Gates[s.gate]

	if s.round%2 == 0 {
		if s.triple >= len(s.triples) {
			ns, err := s.fail(fmt.Errorf("%w: gate %d needs triple %d, have %d",
				ErrDealerExhausted, s.gate, s.triple, len(s.triples)))
			return ns, 0, err
		}
		t := s.triples[s.triple]
		s.d = share.NewHalf(s.wires[gate.Input0] ^ t.U)
		s.e = share.NewHalf(s.wires[gate.Input1] ^ t.V)
		s.sent = true
		return s, s.d.Own(), nil
	}
	s.sent = true
	return s, s.e.Own(), nil
}

// Receive consumes the peer's message for the current round. The
// second round of a gate completes the gate and evaluates all local
// gates up to the next interactive gate.
func (s State) Receive(bit share.Bit) (State, error) {
	if s.err != nil {
		return s, s.err
	}
	if s.phase != PhaseEval || !s.sent {
		return s.fail(s.sequenceError("receive"))
	}
	if bit > 1 {
		return s.fail(fmt.Errorf("%w: round %d: bit %d",
			ErrInvalidMessage, s.round+1, bit))
	}

	if s.round%2 == 0 {
		s.dValue = s.d.Join(bit).Value()
		s.round++
		s.sent = false
		return s, nil
	}

	gate := s.circ.Gates[s.gate]
	t := s.triples[s.triple]
	x := s.wires[gate.Input0]
	y := s.wires[gate.Input1]
	d := s.dValue
	e := s.e.Join(bit).Value()

	z := t.W ^ (e & x) ^ (d & y)
	if s.role == Alice {
		z ^= e & d
	}
	if gate.Op == circuit.OR {
		z ^= x ^ y
	}

	s = s.clone()
	s.wires[gate.Output] = z
	s.round++
	s.sent = false
	s.triple++
	s.gate++
	s = s.evalLocal()

	return s, nil
}

// SendOutputShare returns the party's shares of the output wires.
func (s State) SendOutputShare() (State, []share.Bit, error) {
	if s.err != nil {
		return s, nil, s.err
	}
	if s.phase != PhaseOutput || s.outputSent {
		ns, err := s.fail(s.sequenceError("output share send"))
		return ns, nil, err
	}
	result := append([]share.Bit(nil), s.wires[s.circ.OutputOffset():]...)
	s.outputSent = true
	if s.outputRecvd {
		s.phase = PhaseDone
	}
	return s, result, nil
}

// ReceiveOutputShare reconstructs the outputs from the own and the
// peer's output shares.
func (s State) ReceiveOutputShare(bits []share.Bit) (State, error) {
	if s.err != nil {
		return s, s.err
	}
	if s.phase != PhaseOutput || s.outputRecvd {
		return s.fail(s.sequenceError("output share receive"))
	}
	size := s.circ.Outputs.Size()
	if len(bits) != size {
		return s.fail(fmt.Errorf("%w: got %d output shares, expected %d",
			ErrInvalidMessage, len(bits), size))
	}
	if err := checkBits(bits); err != nil {
		return s.fail(err)
	}

	ofs := s.circ.OutputOffset()
	output := make([]share.Bit, size)
	for i, bit := range bits {
		output[i] = share.NewHalf(s.wires[ofs+i]).Join(bit).Value()
	}
	s.output = output
	s.outputRecvd = true
	if s.outputSent {
		s.phase = PhaseDone
	}
	return s, nil
}

func (s State) startEval() State {
	s = s.clone()
	s.phase = PhaseEval
	return s.evalLocal()
}

// evalLocal evaluates local gates until the next interactive gate.
// The receiver must not share its wires with any other state. The
// constant terms of XNOR and INV are added to Alice's share only.
func (s State) evalLocal() State {
	var one share.Bit
	if s.role == Alice {
		one = 1
	}
	for ; s.gate < len(s.circ.Gates); s.gate++ {
		gate := s.circ.Gates[s.gate]
		if gate.Op.Interactive() {
			return s
		}
		switch gate.Op {
		case circuit.XOR:
			s.wires[gate.Output] = s.wires[gate.Input0] ^ s.wires[gate.Input1]
		case circuit.XNOR:
			s.wires[gate.Output] =
				s.wires[gate.Input0] ^ s.wires[gate.Input1] ^ one
		case circuit.INV:
			s.wires[gate.Output] = s.wires[gate.Input0] ^ one
		}
	}
	s.phase = PhaseOutput
	return s
}

func (s State) clone() State {
	s.wires = append([]share.Bit(nil), s.wires...)
	return s
}

func (s State) fail(err error) (State, error) {
	s.err = err
	return s, err
}

func (s State) sequenceError(op string) error {
	if s.circ == nil {
		return fmt.Errorf("%w: %s on uninitialized state",
			ErrProtocolSequence, op)
	}
	return fmt.Errorf("%w: %v %s in phase %s, round %d/%d",
		ErrProtocolSequence, s.role, op, s.phase, s.round,
		s.circ.NumRounds())
}

func checkBits(bits []share.Bit) error {
	for idx, bit := range bits {
		if bit > 1 {
			return fmt.Errorf("%w: bit %d: %d", ErrInvalidMessage, idx, bit)
		}
	}
	return nil
}
