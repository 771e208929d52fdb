//
// Copyright (c) 2022-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/markkurossi/beaver/p2p"
)

func TestCompatibility(t *testing.T) {
	c := Compatibility()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Stats[AND] != 5 {
		t.Errorf("#AND=%d, expected 5", c.Stats[AND])
	}
	if c.NumRounds() != 10 {
		t.Errorf("#rounds=%d, expected 10", c.NumRounds())
	}
	if c.OutputOffset() != c.NumWires-1 {
		t.Errorf("output offset %d", c.OutputOffset())
	}

	for alice := uint64(0); alice < 8; alice++ {
		for bob := uint64(0); bob < 8; bob++ {
			result, err := c.Compute(alice, bob)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			expected := uint64(TruthTable[alice][bob])
			if len(result) != 1 || result[0] != expected {
				t.Errorf("Compute(%03b, %03b)=%v, expected %v",
					alice, bob, result, expected)
			}
		}
	}
}

func TestTruthTableDominance(t *testing.T) {
	for alice := uint(0); alice < 8; alice++ {
		for bob := uint(0); bob < 8; bob++ {
			var expected uint
			if bob&^alice == 0 {
				expected = 1
			}
			if Compatible(alice, bob) != expected {
				t.Errorf("Compatible(%s, %s)=%v",
					ProfileName(alice), ProfileName(bob),
					Compatible(alice, bob))
			}
		}
	}
}

func TestProfileName(t *testing.T) {
	tests := map[uint]string{
		0b000: "O-",
		0b001: "O+",
		0b101: "A+",
		0b010: "B-",
		0b110: "AB-",
		0b111: "AB+",
	}
	for code, name := range tests {
		if got := ProfileName(code); got != name {
			t.Errorf("ProfileName(%03b)=%s, expected %s", code, got, name)
		}
	}
}

func TestValidate(t *testing.T) {
	io := IO{{Type: "uint1", Size: 1}}

	tests := []struct {
		name  string
		wires int
		gates []Gate
	}{
		{
			name:  "undefined input",
			wires: 3,
			gates: []Gate{{Op: INV, Input0: 1, Output: 2}},
		},
		{
			name:  "redefined output",
			wires: 3,
			gates: []Gate{
				{Op: INV, Input0: 0, Output: 1},
				{Op: INV, Input0: 0, Output: 1},
			},
		},
		{
			name:  "unassigned output",
			wires: 3,
			gates: []Gate{{Op: INV, Input0: 0, Output: 1}},
		},
		{
			name:  "output out of range",
			wires: 2,
			gates: []Gate{{Op: INV, Input0: 0, Output: 5}},
		},
		{
			name:  "bad operation",
			wires: 2,
			gates: []Gate{{Op: Operation(42), Input0: 0, Output: 1}},
		},
	}
	for _, test := range tests {
		c := NewCircuit(test.wires, io, io, test.gates)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: Validate succeeded", test.name)
		}
	}
}

func TestDot(t *testing.T) {
	var buf bytes.Buffer
	Compatibility().Dot(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph circuit") {
		t.Errorf("unexpected dot header: %q", out[:20])
	}
	if n := strings.Count(out, "peripheries=2"); n != 5 {
		t.Errorf("got %d interactive gates, expected 5", n)
	}
	if !strings.Contains(out, "g10 -> w16;") {
		t.Errorf("output gate edge missing")
	}
}

func TestTimingPrint(t *testing.T) {
	timing := NewTiming()
	timing.Sample("Dealer", nil)
	timing.Sample("Eval", []string{"10"})

	stats := p2p.NewIOStats()
	stats.Sent.Store(30)
	stats.Recvd.Store(10)

	var buf bytes.Buffer
	timing.Print(&buf, stats)
	out := buf.String()
	for _, want := range []string{"Dealer", "Eval", "30 B", "10 B",
		"75.00%", "25.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	NewTiming().Print(&buf, stats)
	if buf.Len() != 0 {
		t.Errorf("empty timing printed a report")
	}
}
