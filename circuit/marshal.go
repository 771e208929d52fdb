//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"fmt"
	"io"
)

// MarshalBristol marshals the circuit in the Bristol format.
func (c *Circuit) MarshalBristol(out io.Writer) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%d %d\n", c.NumGates, c.NumWires)
	fmt.Fprintf(w, "%d", len(c.Inputs))
	for _, input := range c.Inputs {
		fmt.Fprintf(w, " %d", input.Size)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d", len(c.Outputs))
	for _, ret := range c.Outputs {
		fmt.Fprintf(w, " %d", ret.Size)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for _, g := range c.Gates {
		fmt.Fprintf(w, "%d 1", len(g.Inputs()))
		for _, w2 := range g.Inputs() {
			fmt.Fprintf(w, " %d", w2)
		}
		fmt.Fprintf(w, " %d", g.Output)
		fmt.Fprintf(w, " %s\n", g.Op)
	}

	return w.Flush()
}
