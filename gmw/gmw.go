//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package gmw implements the two-party GMW protocol with Beaver
// triple multiplication. The parties hold XOR shares of every circuit
// wire. XOR, XNOR, and INV gates are evaluated locally and every AND
// and OR gate consumes one Beaver triple and two message rounds.
//
// The protocol runs in the following phases:
//
//  1. The dealer creates one triple per interactive gate and gives
//     each party its half.
//  2. The parties secret share their inputs with each other.
//  3. For each interactive gate g, round 2g-1 exchanges the shares of
//     d=x⊕u and round 2g the shares of e=y⊕v.
//  4. The parties exchange their output shares and reconstruct the
//     output.
//
// The State type implements the protocol as pure transitions and
// Party wraps it for callers that prefer a mutable object. Run drives
// a Party over a Channel.
package gmw

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	ErrProtocolSequence = errors.New("protocol sequence violation")
	ErrDealerExhausted  = errors.New("dealer exhausted")
	ErrDealerReused     = errors.New("dealer already initialized")
	ErrDealerNotReady   = errors.New("dealer not initialized")
	ErrInvalidMessage   = errors.New("invalid message")
	ErrInvalidInput     = errors.New("invalid input")
)

// Role specifies the party role.
type Role int

// Party roles. The role value is the index of the party's input
// argument in the circuit.
const (
	Alice Role = iota
	Bob
)

func (r Role) String() string {
	switch r {
	case Alice:
		return "Alice"
	case Bob:
		return "Bob"
	default:
		return fmt.Sprintf("{Role %d}", int(r))
	}
}

// Peer returns the role of the other party.
func (r Role) Peer() Role {
	if r == Alice {
		return Bob
	}
	return Alice
}

func (r Role) valid() bool {
	return r == Alice || r == Bob
}
