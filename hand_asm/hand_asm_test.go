package main

import (
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/jmchacon/6502core/cpu"
)

const listing = `
; subroutine test
0200 A2 03    LDX #$03
0202 20 00 03 JSR $0300
0205 4C 05 02 JMP $0205

0300 A9 42    LDA #$42
0302 60       RTS
not a line
`

func TestAssemble(t *testing.T) {
	b, err := assemble(strings.NewReader(listing), 0, true)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if got, want := len(b), 0x0303; got != want {
		t.Fatalf("Bad image length. Got 0x%.4X and want 0x%.4X", got, want)
	}
	if diff := deep.Equal(b[0x0200:0x0208], []byte{0xA2, 0x03, 0x20, 0x00, 0x03, 0x4C, 0x05, 0x02}); diff != nil {
		t.Errorf("Bad main: %v", diff)
	}
	if diff := deep.Equal(b[0x0300:], []byte{0xA9, 0x42, 0x60}); diff != nil {
		t.Errorf("Bad subroutine: %v", diff)
	}

	// And it runs.
	cfg := cpu.DefaultConfig()
	cfg.ResetPC = 0x0200
	c, err := cpu.Init(cfg)
	if err != nil {
		t.Fatalf("Can't initialize cpu - %v", err)
	}
	if err := c.Ram.Load(0, b); err != nil {
		t.Fatalf("Can't load image - %v", err)
	}
	if err := c.Execute(2 + 6 + 2 + 6 + 3); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if c.A != 0x42 || c.X != 0x03 || c.PC != 0x0205 {
		t.Errorf("Bad final state A: %.2X X: %.2X PC: %.4X", c.A, c.X, c.PC)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		size   int
		strict bool
	}{
		{name: "bad byte", in: "0000 A9 ZZ"},
		{name: "too many bytes", in: "0000 20 00 03 04"},
		{name: "past the end", in: "FFFF 20 00 03"},
		{name: "doesn't fit", in: "0100 EA", size: 0x10},
		{name: "bad size", in: "0000 EA", size: -1},
		{name: "unknown opcode", in: "0000 02", strict: true},
		{name: "wrong operand count", in: "0000 A9", strict: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := assemble(strings.NewReader(test.in), test.size, test.strict); err == nil {
				t.Errorf("Expected error for %q", test.in)
			}
		})
	}
	// Without strict unknown bytes are fine, it's just data.
	if _, err := assemble(strings.NewReader("0000 02"), 0, false); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
