//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/gmw"
)

func TestComputeTable(t *testing.T) {
	config := &env.Config{
		Rand: env.NewPRG([]byte("table")),
	}
	table, err := ComputeTable(context.Background(), config)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Table(circuit.TruthTable), table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	if m := table.Mismatches(); len(m) != 0 {
		t.Errorf("mismatches: %v", m)
	}
}

func TestMismatches(t *testing.T) {
	table := Table(circuit.TruthTable)
	table[6][7] = 1

	m := table.Mismatches()
	if diff := cmp.Diff([]string{"AB-/AB+"}, m); diff != "" {
		t.Errorf("mismatches (-want +got):\n%s", diff)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Table(circuit.TruthTable).Print(&buf)
	out := buf.String()
	for _, name := range []string{"O-", "O+", "AB-", "AB+"} {
		if !strings.Contains(out, name) {
			t.Errorf("table output lacks %s", name)
		}
	}

	buf.Reset()
	PrintResult(&buf, gmw.Bob, 0b111, 1)
	if buf.String() != "Bob: input 111 (AB+): compatible\n" {
		t.Errorf("PrintResult: %q", buf.String())
	}
}
