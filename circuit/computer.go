//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"fmt"
)

// Compute evaluates the circuit in plaintext. The inputs are given
// one value per input argument.
func (c *Circuit) Compute(inputs ...uint64) ([]uint64, error) {
	if len(inputs) != len(c.Inputs) {
		return nil, fmt.Errorf("invalid arguments: got %d, expected %d",
			len(inputs), len(c.Inputs))
	}

	wires := make([]byte, c.NumWires)

	var w int
	for idx, io := range c.Inputs {
		a := inputs[idx]
		for bit := 0; bit < io.Size; bit++ {
			if a&(1<<bit) != 0 {
				wires[w] = 1
			}
			w++
		}
	}

	// Evaluate circuit.
	for _, gate := range c.Gates {
		var result byte

		switch gate.Op {
		case XOR:
			result = wires[gate.Input0] ^ wires[gate.Input1]

		case XNOR:
			result = 1 ^ wires[gate.Input0] ^ wires[gate.Input1]

		case AND:
			result = wires[gate.Input0] & wires[gate.Input1]

		case OR:
			result = wires[gate.Input0] | wires[gate.Input1]

		case INV:
			result = 1 ^ wires[gate.Input0]

		default:
			return nil, fmt.Errorf("invalid gate %s", gate.Op)
		}

		wires[gate.Output] = result
	}

	// Construct outputs
	w = c.OutputOffset()
	var result []uint64
	for _, io := range c.Outputs {
		var r uint64
		for bit := 0; bit < io.Size; bit++ {
			if wires[w] != 0 {
				r |= 1 << bit
			}
			w++
		}
		result = append(result, r)
	}

	return result, nil
}
