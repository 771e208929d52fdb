//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

// Blood type attribute bits in the 3-bit profile codes. Code 0b001
// is O+ and 0b110 is AB-.
const (
	BitRh = 1 << iota
	BitB
	BitA
)

// TruthTable is the compatibility oracle. Rows are indexed by Alice's
// (donor) profile code and columns by Bob's (recipient) code; 1 means
// compatible.
var TruthTable = [8][8]uint{
	{1, 0, 0, 0, 0, 0, 0, 0},
	{1, 1, 0, 0, 0, 0, 0, 0},
	{1, 0, 1, 0, 0, 0, 0, 0},
	{1, 1, 1, 1, 0, 0, 0, 0},
	{1, 0, 0, 0, 1, 0, 0, 0},
	{1, 1, 0, 0, 1, 1, 0, 0},
	{1, 0, 1, 0, 1, 0, 1, 0},
	{1, 1, 1, 1, 1, 1, 1, 1},
}

// Compatible returns the truth table value for the profile codes.
func Compatible(alice, bob uint) uint {
	return TruthTable[alice&7][bob&7]
}

// ProfileName returns the blood type name of the profile code.
func ProfileName(code uint) string {
	var name string
	switch code & (BitA | BitB) {
	case 0:
		name = "O"
	case BitA:
		name = "A"
	case BitB:
		name = "B"
	default:
		name = "AB"
	}
	if code&BitRh != 0 {
		return name + "+"
	}
	return name + "-"
}

// Compatibility creates the compatibility circuit. The output is 1
// iff every attribute Bob has, Alice has too. The circuit has five
// AND gates, evaluated in the order ¬A∧A', ¬B∧B', ¬t1∧¬t2, ¬Rh∧Rh',
// t12∧¬t3.
func Compatibility() *Circuit {
	const (
		aliceRh Wire = iota
		aliceB
		aliceA
		bobRh
		bobB
		bobA
		notAliceA
		term1
		notAliceB
		term2
		notTerm1
		notTerm2
		term12
		notAliceRh
		term3
		notTerm3
		out
		numWires
	)

	gates := []Gate{
		{Op: INV, Input0: aliceA, Output: notAliceA},
		{Op: AND, Input0: notAliceA, Input1: bobA, Output: term1},
		{Op: INV, Input0: aliceB, Output: notAliceB},
		{Op: AND, Input0: notAliceB, Input1: bobB, Output: term2},
		{Op: INV, Input0: term1, Output: notTerm1},
		{Op: INV, Input0: term2, Output: notTerm2},
		{Op: AND, Input0: notTerm1, Input1: notTerm2, Output: term12},
		{Op: INV, Input0: aliceRh, Output: notAliceRh},
		{Op: AND, Input0: notAliceRh, Input1: bobRh, Output: term3},
		{Op: INV, Input0: term3, Output: notTerm3},
		{Op: AND, Input0: term12, Input1: notTerm3, Output: out},
	}

	return NewCircuit(int(numWires),
		IO{
			{Name: "alice", Type: "uint3", Size: 3},
			{Name: "bob", Type: "uint3", Size: 3},
		},
		IO{
			{Name: "compatible", Type: "bool", Size: 1},
		},
		gates)
}
