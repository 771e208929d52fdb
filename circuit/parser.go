//
// parser.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

var reParts = regexp.MustCompile("[[:space:]]+")

// ParseBristol parses a circuit in the Bristol format. The parsed
// circuit is validated before it is returned.
func ParseBristol(in io.Reader) (*Circuit, error) {
	r := bufio.NewReader(in)

	// NumGates NumWires
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if len(line) != 2 {
		return nil, errors.New("invalid 1st line")
	}
	numGates, err := strconv.Atoi(line[0])
	if err != nil {
		return nil, err
	}
	numWires, err := strconv.Atoi(line[1])
	if err != nil {
		return nil, err
	}
	if numGates < 0 || numWires < 0 {
		return nil, errors.New("invalid 1st line")
	}

	// Inputs and outputs: count followed by argument sizes.
	inputs, err := parseIO(r, "input")
	if err != nil {
		return nil, err
	}
	outputs, err := parseIO(r, "output")
	if err != nil {
		return nil, err
	}

	var gates []Gate
	for {
		line, err = readLine(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if len(line) < 3 {
			return nil, fmt.Errorf("invalid gate: %v", line)
		}
		n1, err := strconv.Atoi(line[0])
		if err != nil {
			return nil, err
		}
		n2, err := strconv.Atoi(line[1])
		if err != nil {
			return nil, err
		}
		if n1 < 0 || n2 != 1 || 2+n1+n2+1 != len(line) {
			return nil, fmt.Errorf("invalid gate: %v", line)
		}

		var wires []Wire
		for i := 0; i < n1+n2; i++ {
			v, err := strconv.ParseUint(line[2+i], 10, 32)
			if err != nil {
				return nil, err
			}
			wires = append(wires, Wire(v))
		}

		var op Operation
		switch line[len(line)-1] {
		case "XOR":
			op = XOR
		case "XNOR":
			op = XNOR
		case "AND":
			op = AND
		case "OR":
			op = OR
		case "INV":
			op = INV
		default:
			return nil, fmt.Errorf("invalid operation '%s'", line[len(line)-1])
		}

		var gate Gate
		switch op {
		case INV:
			if n1 != 1 {
				return nil, fmt.Errorf("invalid gate: %v", line)
			}
			gate = Gate{
				Input0: wires[0],
				Output: wires[1],
				Op:     op,
			}
		default:
			if n1 != 2 {
				return nil, fmt.Errorf("invalid gate: %v", line)
			}
			gate = Gate{
				Input0: wires[0],
				Input1: wires[1],
				Output: wires[2],
				Op:     op,
			}
		}
		gates = append(gates, gate)
	}
	if len(gates) != numGates {
		return nil, fmt.Errorf("invalid circuit: expected %d gates, got %d",
			numGates, len(gates))
	}

	c := NewCircuit(numWires, inputs, outputs, gates)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseIO(r *bufio.Reader, kind string) (IO, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(line[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || len(line) != n+1 {
		return nil, fmt.Errorf("invalid %s line: %v", kind, line)
	}
	var result IO
	for i := 0; i < n; i++ {
		size, err := strconv.Atoi(line[1+i])
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, fmt.Errorf("invalid %s size: %d", kind, size)
		}
		result = append(result, IOArg{
			Type: fmt.Sprintf("uint%d", size),
			Size: size,
		})
	}
	return result, nil
}

func readLine(r *bufio.Reader) ([]string, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF || len(line) == 0 {
				return nil, err
			}
		}
		parts := reParts.Split(line, -1)
		var fields []string
		for _, part := range parts {
			if len(part) > 0 {
				fields = append(fields, part)
			}
		}
		if len(fields) > 0 {
			return fields, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
