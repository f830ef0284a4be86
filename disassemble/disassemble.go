// Package disassemble implements a disassembler for the opcodes
// the cpu package supports. It's driven by the same dispatch table
// so anything executable can be listed.
package disassemble

import (
	"fmt"

	"github.com/jmchacon/6502core/cpu"
	"github.com/jmchacon/6502core/memory"
)

// UNKNOWN is the mnemonic shown for bytes with no dispatch table entry.
const UNKNOWN = "???"

// Step will take the given PC value and disassemble the instruction at that location
// returning a string for the disassembly and the bytes forward the PC should move to get to
// the next instruction. This does not interpret the instructions so LDA, JMP, LDA in memory
// will disassemble as that sequence and not follow the JMP.
// Only the bytes the instruction occupies are read. An error is returned if any of them
// are outside of r.
func Step(pc uint16, r memory.Bank) (string, int, error) {
	o, err := r.Read(pc)
	if err != nil {
		return "", 0, err
	}
	op := UNKNOWN
	mode := cpu.MODE_IMPLIED
	if def, ok := cpu.Lookup(o); ok {
		op = def.Name
		mode = def.Mode
	}

	var args [2]uint8
	count := mode.Bytes()
	for i := 1; i < count; i++ {
		if args[i-1], err = r.Read(pc + uint16(i)); err != nil {
			return "", 0, err
		}
	}
	pc1, pc2 := args[0], args[1]

	out := fmt.Sprintf("%.4X %.2X ", pc, o)
	switch mode {
	case cpu.MODE_IMMEDIATE:
		out += fmt.Sprintf("%.2X      %s #%.2X       ", pc1, op, pc1)
	case cpu.MODE_ZP:
		out += fmt.Sprintf("%.2X      %s %.2X        ", pc1, op, pc1)
	case cpu.MODE_ZPX:
		out += fmt.Sprintf("%.2X      %s %.2X,X      ", pc1, op, pc1)
	case cpu.MODE_ZPY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y      ", pc1, op, pc1)
	case cpu.MODE_ABSOLUTE:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X      ", pc1, pc2, op, pc2, pc1)
	case cpu.MODE_IMPLIED:
		out += fmt.Sprintf("        %s           ", op)
	default:
		panic(fmt.Sprintf("Invalid mode: %d", mode))
	}
	return out, count, nil
}
