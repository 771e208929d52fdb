//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package beaver evaluates the blood type compatibility predicate
// between two parties without revealing their blood types to each
// other. The protocol is implemented in the gmw package; this
// package collects and renders the results.
package beaver

import (
	"context"
	"fmt"
	"io"

	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/gmw"
	"github.com/markkurossi/tabulate"
)

// Table holds the protocol outputs for all profile pairs. Rows are
// indexed by Alice's profile code and columns by Bob's.
type Table [8][8]uint

// ComputeTable runs the protocol for all 64 profile pairs.
func ComputeTable(ctx context.Context, config *env.Config) (Table, error) {
	var table Table

	circ := circuit.Compatibility()
	for alice := 0; alice < 8; alice++ {
		for bob := 0; bob < 8; bob++ {
			bit, err := gmw.Evaluate(ctx, config, circ,
				uint64(alice), uint64(bob))
			if err != nil {
				return table, fmt.Errorf("%s vs %s: %w",
					circuit.ProfileName(uint(alice)),
					circuit.ProfileName(uint(bob)), err)
			}
			table[alice][bob] = uint(bit)
		}
	}
	return table, nil
}

// Mismatches returns the profile pairs where the table differs from
// the truth table.
func (t Table) Mismatches() []string {
	var result []string
	for alice := uint(0); alice < 8; alice++ {
		for bob := uint(0); bob < 8; bob++ {
			if t[alice][bob] != circuit.Compatible(alice, bob) {
				result = append(result, fmt.Sprintf("%s/%s",
					circuit.ProfileName(alice), circuit.ProfileName(bob)))
			}
		}
	}
	return result
}

// Print prints the table to out.
func (t Table) Print(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Alice\\Bob").SetAlign(tabulate.ML)
	for bob := uint(0); bob < 8; bob++ {
		tab.Header(circuit.ProfileName(bob)).SetAlign(tabulate.MR)
	}
	for alice := uint(0); alice < 8; alice++ {
		row := tab.Row()
		row.Column(fmt.Sprintf("%03b %s", alice, circuit.ProfileName(alice)))
		for bob := uint(0); bob < 8; bob++ {
			col := row.Column(fmt.Sprintf("%d", t[alice][bob]))
			if t[alice][bob] != circuit.Compatible(alice, bob) {
				col.SetFormat(tabulate.FmtBold)
			}
		}
	}
	tab.Print(out)
}

// PrintResult prints the result of one evaluation.
func PrintResult(out io.Writer, role gmw.Role, input uint64, result uint) {
	var verdict string
	if result == 1 {
		verdict = "compatible"
	} else {
		verdict = "incompatible"
	}
	fmt.Fprintf(out, "%v: input %03b (%s): %s\n",
		role, input, circuit.ProfileName(uint(input)), verdict)
}
