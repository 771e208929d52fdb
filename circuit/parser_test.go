//
// parser_test.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var data = `1 3
2 1 1
1 1

2 1 0 1 2 AND
`

func TestParse(t *testing.T) {
	circ, err := ParseBristol(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if circ.NumInteractive() != 1 {
		t.Errorf("#interactive=%d, expected 1", circ.NumInteractive())
	}
	for a := uint64(0); a < 2; a++ {
		for b := uint64(0); b < 2; b++ {
			result, err := circ.Compute(a, b)
			if err != nil {
				t.Fatal(err)
			}
			if result[0] != a&b {
				t.Errorf("%v AND %v = %v", a, b, result[0])
			}
		}
	}
}

func TestBristolRoundTrip(t *testing.T) {
	c := Compatibility()

	var buf bytes.Buffer
	if err := c.MarshalBristol(&buf); err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseBristol(&buf)
	if err != nil {
		t.Fatalf("ParseBristol: %v", err)
	}
	if diff := cmp.Diff(c.Gates, parsed.Gates); diff != "" {
		t.Errorf("gates mismatch (-want +got):\n%s", diff)
	}
	if parsed.NumWires != c.NumWires || parsed.Stats != c.Stats {
		t.Errorf("parsed %v, expected %v", parsed, c)
	}
	if parsed.Inputs.Size() != c.Inputs.Size() ||
		parsed.Outputs.Size() != c.Outputs.Size() {
		t.Errorf("I/O mismatch: %v -> %v", c.Inputs, parsed.Inputs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"1\n",
		"1 3\n2 1\n1 1\n\n2 1 0 1 2 AND\n",
		"1 3\n2 1 1\n1 1\n\n2 1 0 1 2 NAND\n",
		"1 3\n2 1 1\n1 1\n\n1 1 0 1 2 AND\n",
		"2 3\n2 1 1\n1 1\n\n2 1 0 1 2 AND\n",
		"1 3\n2 1 1\n1 1\n\n2 1 0 2 2 AND\n",
	}
	for idx, test := range tests {
		_, err := ParseBristol(strings.NewReader(test))
		if err == nil {
			t.Errorf("test %d: ParseBristol succeeded", idx)
		}
	}
}
