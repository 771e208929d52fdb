//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/markkurossi/beaver"
	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/gmw"
)

// parseProfile parses a profile code given as a number (0b110, 6) or
// as a blood type name (AB-).
func parseProfile(val string) (uint64, error) {
	for code := uint(0); code < 8; code++ {
		if val == circuit.ProfileName(code) {
			return uint64(code), nil
		}
	}
	v, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid blood type '%s'", val)
	}
	if v > 7 {
		return 0, fmt.Errorf("invalid blood type code %d", v)
	}
	return v, nil
}

type tableCmd struct {
	commonFlags
}

func (*tableCmd) Name() string { return "table" }
func (*tableCmd) Synopsis() string {
	return "evaluates the protocol for all 64 blood type pairs"
}
func (*tableCmd) Usage() string {
	return `Usage: bloodtype table [-seed=<seed>] [-v=<level>]

Runs the protocol for every donor and recipient pair and prints the
resulting compatibility table. Entries that differ from the expected
truth table are printed in bold and make the command fail.

Flags:
`
}

func (c *tableCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
}

func (c *tableCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	ctx, config, err := c.setup(ctx, "table")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	table, err := beaver.ComputeTable(ctx, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	table.Print(os.Stdout)

	if m := table.Mismatches(); len(m) > 0 {
		fmt.Fprintf(os.Stderr, "%d mismatches: %v\n", len(m), m)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type evalCmd struct {
	commonFlags
	alice  string
	bob    string
	pipe   bool
	timing bool
}

func (*evalCmd) Name() string { return "eval" }
func (*evalCmd) Synopsis() string {
	return "evaluates one blood type pair in a single process"
}
func (*evalCmd) Usage() string {
	return `Usage: bloodtype eval -alice=<type> -bob=<type> [-pipe] [-timing]

Blood types are given as names (O-, A+, AB-) or as 3-bit codes where
the most significant bit is the A antigen, the middle bit the B
antigen, and the least significant bit the Rh factor.

Flags:
`
}

func (c *evalCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.alice, "alice", "O-", "Alice's (donor) blood type")
	f.StringVar(&c.bob, "bob", "O-", "Bob's (recipient) blood type")
	f.BoolVar(&c.pipe, "pipe", false,
		"run the parties in goroutines connected with a pipe")
	f.BoolVar(&c.timing, "timing", false, "print timing report")
}

func (c *evalCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	alice, err := parseProfile(c.alice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitUsageError
	}
	bob, err := parseProfile(c.bob)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitUsageError
	}
	ctx, config, err := c.setup(ctx, "eval")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	circ := circuit.Compatibility()
	timing := circuit.NewTiming()

	var bit uint
	if c.pipe {
		result, stats, err := gmw.EvaluatePipe(ctx, config, circ, alice, bob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return subcommands.ExitFailure
		}
		timing.Sample("Eval", []string{fmt.Sprintf("%d", circ.NumRounds())})
		if c.timing {
			timing.Print(os.Stdout, stats)
		}
		bit = uint(result)
	} else {
		result, err := gmw.Evaluate(ctx, config, circ, alice, bob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return subcommands.ExitFailure
		}
		bit = uint(result)
	}
	beaver.PrintResult(os.Stdout, gmw.Alice, alice, bit)
	beaver.PrintResult(os.Stdout, gmw.Bob, bob, bit)

	return subcommands.ExitSuccess
}

type dumpCmd struct {
	file    string
	verbose bool
	dot     bool
}

func (*dumpCmd) Name() string { return "dump" }
func (*dumpCmd) Synopsis() string {
	return "prints the compatibility circuit in the Bristol format"
}
func (*dumpCmd) Usage() string {
	return `Usage: bloodtype dump [-i=<circuit.txt>] [-gates] [-dot]

Prints the compatibility circuit in the Bristol format. With -i the
circuit is read from the file, validated, and checked against the
truth table.

Flags:
`
}

func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "i", "", "Bristol circuit file")
	f.BoolVar(&c.verbose, "gates", false, "print the gate listing")
	f.BoolVar(&c.dot, "dot", false, "print the circuit in graphviz dot format")
}

func (c *dumpCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	circ := circuit.Compatibility()
	if len(c.file) > 0 {
		in, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return subcommands.ExitFailure
		}
		defer in.Close()
		circ, err = circuit.ParseBristol(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		if err := checkCircuit(circ); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
	}
	if c.dot {
		circ.Dot(os.Stdout)
		return subcommands.ExitSuccess
	}
	if c.verbose {
		circ.Dump()
		return subcommands.ExitSuccess
	}
	if err := circ.MarshalBristol(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// checkCircuit verifies that circ computes the truth table.
func checkCircuit(circ *circuit.Circuit) error {
	for alice := uint64(0); alice < 8; alice++ {
		for bob := uint64(0); bob < 8; bob++ {
			result, err := circ.Compute(alice, bob)
			if err != nil {
				return err
			}
			expected := uint64(circuit.Compatible(uint(alice), uint(bob)))
			if len(result) != 1 || result[0] != expected {
				return fmt.Errorf("%s/%s: got %v, expected %v",
					circuit.ProfileName(uint(alice)),
					circuit.ProfileName(uint(bob)), result, expected)
			}
		}
	}
	return nil
}

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "prints the current version" }
func (*versionCmd) Usage() string            { return "Usage: bloodtype version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (*versionCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	fmt.Printf("bloodtype version %s\n", version)
	return subcommands.ExitSuccess
}
