//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements boolean circuits that are evaluated
// gate by gate on secret shared wires.
package circuit

import (
	"fmt"
)

// Operation specifies gate function.
type Operation byte

// Gate functions.
const (
	XOR Operation = iota
	XNOR
	AND
	OR
	INV
)

// Stats holds statistics about circuit operations.
type Stats [INV + 1]int

func (op Operation) String() string {
	switch op {
	case XOR:
		return "XOR"
	case XNOR:
		return "XNOR"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case INV:
		return "INV"
	default:
		return fmt.Sprintf("{Operation %d}", op)
	}
}

// Interactive tests if the operation needs a multiplication between
// the parties. Interactive gates consume one Beaver triple and two
// message rounds.
func (op Operation) Interactive() bool {
	return op == AND || op == OR
}

// IOArg describes circuit input and output argument.
type IOArg struct {
	Name string
	Type string
	Size int
}

func (io IOArg) String() string {
	if len(io.Name) > 0 {
		return io.Name + ":" + io.Type
	}
	return io.Type
}

// IO specifies circuit input and output arguments.
type IO []IOArg

// Size computes the size of the circuit input and output arguments in
// bits.
func (io IO) Size() int {
	var sum int
	for _, a := range io {
		sum += a.Size
	}
	return sum
}

func (io IO) String() string {
	var str = ""
	for i, a := range io {
		if i > 0 {
			str += ", "
		}
		str += a.String()
	}
	return str
}

// Circuit specifies a boolean circuit. Input wires are numbered
// from 0 in the order of the Inputs arguments, least significant bit
// first. The output wires are the last Outputs.Size() wires.
type Circuit struct {
	NumGates int
	NumWires int
	Inputs   IO
	Outputs  IO
	Gates    []Gate
	Stats    Stats
}

// NewCircuit creates a circuit from its I/O arguments and gates and
// computes its statistics.
func NewCircuit(numWires int, inputs, outputs IO, gates []Gate) *Circuit {
	c := &Circuit{
		NumGates: len(gates),
		NumWires: numWires,
		Inputs:   inputs,
		Outputs:  outputs,
		Gates:    gates,
	}
	for _, g := range gates {
		if g.Op <= INV {
			c.Stats[g.Op]++
		}
	}
	return c
}

func (c *Circuit) String() string {
	var stats string

	for k := XOR; k <= INV; k++ {
		v := c.Stats[k]
		if len(stats) > 0 {
			stats += " "
		}
		stats += fmt.Sprintf("%s=%d", k, v)
	}
	return fmt.Sprintf("#gates=%d (%s) #w=%d", c.NumGates, stats, c.NumWires)
}

// NumParties returns the number of parties providing inputs.
func (c *Circuit) NumParties() int {
	return len(c.Inputs)
}

// NumInteractive returns the number of gates that consume a Beaver
// triple.
func (c *Circuit) NumInteractive() int {
	return c.Stats[AND] + c.Stats[OR]
}

// NumRounds returns the number of message rounds needed to evaluate
// the circuit.
func (c *Circuit) NumRounds() int {
	return 2 * c.NumInteractive()
}

// InputOffset returns the first wire of the party's input.
func (c *Circuit) InputOffset(party int) int {
	var ofs int
	for i := 0; i < party; i++ {
		ofs += c.Inputs[i].Size
	}
	return ofs
}

// OutputOffset returns the first output wire.
func (c *Circuit) OutputOffset() int {
	return c.NumWires - c.Outputs.Size()
}

// Validate checks that the circuit is well-formed: wire IDs are in
// range, every gate input is defined before it is used, and every
// output wire is assigned.
func (c *Circuit) Validate() error {
	if c.NumGates != len(c.Gates) {
		return fmt.Errorf("invalid circuit: #gates=%d, got %d gates",
			c.NumGates, len(c.Gates))
	}
	if c.Inputs.Size()+c.Outputs.Size() > c.NumWires {
		return fmt.Errorf("invalid circuit: %d inputs and %d outputs > %d wires",
			c.Inputs.Size(), c.Outputs.Size(), c.NumWires)
	}
	defined := make([]bool, c.NumWires)
	for i := 0; i < c.Inputs.Size(); i++ {
		defined[i] = true
	}
	for idx, g := range c.Gates {
		if g.Op > INV {
			return fmt.Errorf("gate %d: unsupported gate type %s", idx, g.Op)
		}
		for _, w := range g.Inputs() {
			if w.ID() >= c.NumWires || !defined[w] {
				return fmt.Errorf("gate %d: input %v undefined", idx, w)
			}
		}
		if g.Output.ID() >= c.NumWires {
			return fmt.Errorf("gate %d: output %v out of range", idx, g.Output)
		}
		if defined[g.Output] {
			return fmt.Errorf("gate %d: output %v already defined",
				idx, g.Output)
		}
		defined[g.Output] = true
	}
	for i := c.OutputOffset(); i < c.NumWires; i++ {
		if !defined[i] {
			return fmt.Errorf("output wire w%d not assigned", i)
		}
	}
	return nil
}

// Dump prints a debug dump of the circuit.
func (c *Circuit) Dump() {
	fmt.Printf("circuit %s\n", c)
	for id, gate := range c.Gates {
		fmt.Printf("%04d\t%s\n", id, gate)
	}
}

// Gate specifies a boolean gate.
type Gate struct {
	Input0 Wire
	Input1 Wire
	Output Wire
	Op     Operation
}

func (g Gate) String() string {
	return fmt.Sprintf("%v %v %v", g.Inputs(), g.Op, g.Output)
}

// Inputs returns gate input wires.
func (g Gate) Inputs() []Wire {
	switch g.Op {
	case XOR, XNOR, AND, OR:
		return []Wire{g.Input0, g.Input1}
	case INV:
		return []Wire{g.Input0}
	default:
		panic(fmt.Sprintf("unsupported gate type %s", g.Op))
	}
}

// Wire specifies a wire ID.
type Wire uint32

// ID returns the wire ID as integer.
func (w Wire) ID() int {
	return int(w)
}

func (w Wire) String() string {
	return fmt.Sprintf("w%d", w)
}
