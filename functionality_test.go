// Package functionality does basic end-end verification
// of the CPU core running small programs against a flat memory.
package functionality

import (
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/jmchacon/6502core/cpu"
)

// regs is the externally visible register state compared at the end of a run.
type regs struct {
	A, X, Y   uint8
	SP, PC    uint16
	Flags     cpu.Flags
	Remaining int
}

func snapshot(c *cpu.Processor) regs {
	return regs{c.A, c.X, c.Y, c.SP, c.PC, c.Flags, c.Remaining()}
}

func load(t *testing.T, c *cpu.Processor, addr uint16, b ...uint8) {
	t.Helper()
	if err := c.Ram.Load(addr, b); err != nil {
		t.Fatalf("Can't load at 0x%.4X - %v", addr, err)
	}
}

// TestSmoke is the original harness: LDA #$42 at the reset vector with 3 cycles.
// The 3rd cycle fetches the zero byte after it which is not an opcode.
func TestSmoke(t *testing.T) {
	tests := []struct {
		name    string
		unknown cpu.UnknownOpcodePolicy
		err     bool
		want    regs
	}{
		{
			name:    "fatal",
			unknown: cpu.UNKNOWN_FATAL,
			err:     true,
			want:    regs{A: 0x42, SP: cpu.STACK_START, PC: cpu.RESET_VECTOR + 2, Remaining: 0},
		},
		{
			name:    "compatibility NOP",
			unknown: cpu.UNKNOWN_NOP,
			want:    regs{A: 0x42, SP: cpu.STACK_START, PC: cpu.RESET_VECTOR + 3, Remaining: 0},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := cpu.DefaultConfig()
			cfg.Unknown = test.unknown
			c, err := cpu.Init(cfg)
			if err != nil {
				t.Fatalf("Can't initialize cpu - %v", err)
			}
			load(t, c, cpu.RESET_VECTOR, 0xA9, 0x42)
			err = c.Execute(3)
			if got, want := err != nil, test.err; got != want {
				t.Fatalf("Wrong error state. Got %v and want error %t", err, want)
			}
			if test.err && !errors.Is(err, cpu.ErrUnknownOpcode) {
				t.Errorf("Wrong error: %v", err)
			}
			if diff := deep.Equal(snapshot(c), test.want); diff != nil {
				t.Errorf("Final state wrong: %v\nstate: %s", diff, spew.Sdump(c.Flags))
			}
		})
	}
}

// TestNestedSubroutines runs main -> sub1 -> sub2 and back, checking stores
// along the way and that the stack unwinds exactly.
func TestNestedSubroutines(t *testing.T) {
	cfg := cpu.DefaultConfig()
	cfg.ResetPC = 0x0400
	c, err := cpu.Init(cfg)
	if err != nil {
		t.Fatalf("Can't initialize cpu - %v", err)
	}
	load(t, c, 0x0400,
		0xA2, 0x03, // LDX #$03
		0x20, 0x00, 0x05, // JSR $0500
		0x8D, 0x00, 0x30, // STA $3000
		0x4C, 0x08, 0x04, // JMP $0408
	)
	load(t, c, 0x0500,
		0xA9, 0x11, // LDA #$11
		0x95, 0x10, // STA $10,X
		0x20, 0x00, 0x06, // JSR $0600
		0xE8, // INX
		0x60, // RTS
	)
	load(t, c, 0x0600,
		0xA0, 0x80, // LDY #$80
		0x84, 0x20, // STY $20
		0x98, // TYA
		0x60, // RTS
	)

	budget := 2 + // LDX
		6 + // JSR
		2 + 4 + 6 + // LDA STA JSR
		2 + 3 + 2 + 6 + // LDY STY TYA RTS
		2 + 6 + // INX RTS
		4 + // STA
		3 // JMP
	if err := c.Execute(budget); err != nil {
		t.Fatalf("Execute failed: %v\nstate: %s", err, spew.Sdump(snapshot(c)))
	}
	want := regs{
		A:  0x80,
		X:  0x04,
		Y:  0x80,
		SP: cpu.STACK_START,
		PC: 0x0408,
		// INX was the last flag setter.
		Flags: cpu.Flags{},
	}
	if diff := deep.Equal(snapshot(c), want); diff != nil {
		t.Errorf("Final state wrong: %v", diff)
	}
	for _, m := range []struct {
		addr uint16
		want uint8
	}{
		{0x0013, 0x11},
		{0x0020, 0x80},
		{0x3000, 0x80},
	} {
		got, err := c.Ram.Read(m.addr)
		if err != nil || got != m.want {
			t.Errorf("0x%.4X: got %.2X (%v) want %.2X", m.addr, got, err, m.want)
		}
	}
	// JMP $0408 spins forever at 3 cycles each.
	if err := c.Execute(30); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got, want := c.PC, uint16(0x0408); got != want {
		t.Errorf("PC left the loop. Got %.4X and want %.4X", got, want)
	}
}

// TestIndependentInstances runs many CPUs in parallel to show nothing is shared.
func TestIndependentInstances(t *testing.T) {
	for i := 0; i < 16; i++ {
		v := uint8(i * 17)
		t.Run(fmt.Sprintf("cpu %d", i), func(t *testing.T) {
			t.Parallel()
			c := cpu.Reset()
			c.PC = 0x0200
			load(t, c, 0x0200,
				0xA9, v, // LDA #v
				0x85, 0x00, // STA $00
				0xA6, 0x00, // LDX $00
				0x4C, 0x00, 0x02, // JMP $0200
			)
			for n := 0; n < 100; n++ {
				if err := c.Execute(2 + 3 + 3 + 3); err != nil {
					t.Fatalf("Execute failed: %v", err)
				}
				if c.A != v || c.X != v {
					t.Fatalf("Iteration %d: got A: %.2X X: %.2X want %.2X", n, c.A, c.X, v)
				}
			}
		})
	}
}
