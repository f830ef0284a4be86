package cpu

import "fmt"

// Mode is an addressing mode used to locate an instruction's operand.
type Mode int

const (
	MODE_IMPLIED Mode = iota
	MODE_IMMEDIATE
	MODE_ZP
	MODE_ZPX
	MODE_ZPY
	MODE_ABSOLUTE
)

// Bytes returns the length of an instruction using this mode including the opcode.
func (m Mode) Bytes() int {
	switch m {
	case MODE_IMMEDIATE, MODE_ZP, MODE_ZPX, MODE_ZPY:
		return 2
	case MODE_ABSOLUTE:
		return 3
	}
	return 1
}

// instructionMode is an enumeration indicating the type of instruction being processed.
// Used below in addressing modes.
type instructionMode int

const (
	kLOAD_INSTRUCTION  instructionMode = iota // Resolve the address and read it.
	kSTORE_INSTRUCTION                        // Resolve the address only, the effect writes it.
	kJUMP_INSTRUCTION                         // The resolved address is the new PC.
)

// operand is the result of addressing mode resolution.
type operand struct {
	val  uint8  // Value read (load instructions only).
	addr uint16 // Effective address (all but immediate/implied).
}

// Opcode is a single dispatch table entry.
type Opcode struct {
	Op     uint8
	Name   string
	Mode   Mode
	Cycles int // Total cost including the opcode fetch.

	kind   instructionMode
	exec   func(*Processor, operand) error
	result func(*Processor) uint8 // If non-nil Z/N are set from it after exec.
}

// definitions is every supported (opcode, mode) pair. Add instructions here.
var definitions = []Opcode{
	{0xA9, "LDA", MODE_IMMEDIATE, 2, kLOAD_INSTRUCTION, (*Processor).iLDA, (*Processor).regA},
	{0xA5, "LDA", MODE_ZP, 3, kLOAD_INSTRUCTION, (*Processor).iLDA, (*Processor).regA},
	{0xB5, "LDA", MODE_ZPX, 4, kLOAD_INSTRUCTION, (*Processor).iLDA, (*Processor).regA},
	{0xAD, "LDA", MODE_ABSOLUTE, 4, kLOAD_INSTRUCTION, (*Processor).iLDA, (*Processor).regA},

	{0xA2, "LDX", MODE_IMMEDIATE, 2, kLOAD_INSTRUCTION, (*Processor).iLDX, (*Processor).regX},
	{0xA6, "LDX", MODE_ZP, 3, kLOAD_INSTRUCTION, (*Processor).iLDX, (*Processor).regX},
	{0xB6, "LDX", MODE_ZPY, 4, kLOAD_INSTRUCTION, (*Processor).iLDX, (*Processor).regX},

	{0xA0, "LDY", MODE_IMMEDIATE, 2, kLOAD_INSTRUCTION, (*Processor).iLDY, (*Processor).regY},
	{0xA4, "LDY", MODE_ZP, 3, kLOAD_INSTRUCTION, (*Processor).iLDY, (*Processor).regY},
	{0xB4, "LDY", MODE_ZPX, 4, kLOAD_INSTRUCTION, (*Processor).iLDY, (*Processor).regY},

	{0x85, "STA", MODE_ZP, 3, kSTORE_INSTRUCTION, (*Processor).iSTA, nil},
	{0x95, "STA", MODE_ZPX, 4, kSTORE_INSTRUCTION, (*Processor).iSTA, nil},
	{0x8D, "STA", MODE_ABSOLUTE, 4, kSTORE_INSTRUCTION, (*Processor).iSTA, nil},
	{0x86, "STX", MODE_ZP, 3, kSTORE_INSTRUCTION, (*Processor).iSTX, nil},
	{0x84, "STY", MODE_ZP, 3, kSTORE_INSTRUCTION, (*Processor).iSTY, nil},

	{0x20, "JSR", MODE_ABSOLUTE, 6, kJUMP_INSTRUCTION, (*Processor).iJSR, nil},
	{0x60, "RTS", MODE_IMPLIED, 6, kLOAD_INSTRUCTION, (*Processor).iRTS, nil},
	{0x4C, "JMP", MODE_ABSOLUTE, 3, kJUMP_INSTRUCTION, (*Processor).iJMP, nil},

	{0xEA, "NOP", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iNOP, nil},
	{0xE8, "INX", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iINX, (*Processor).regX},
	{0xC8, "INY", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iINY, (*Processor).regY},
	{0xCA, "DEX", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iDEX, (*Processor).regX},
	{0x88, "DEY", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iDEY, (*Processor).regY},
	{0xAA, "TAX", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iTAX, (*Processor).regX},
	{0xA8, "TAY", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iTAY, (*Processor).regY},
	{0x8A, "TXA", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iTXA, (*Processor).regA},
	{0x98, "TYA", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iTYA, (*Processor).regA},

	{0x18, "CLC", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iCLC, nil},
	{0x38, "SEC", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iSEC, nil},
	{0x58, "CLI", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iCLI, nil},
	{0x78, "SEI", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iSEI, nil},
	{0xD8, "CLD", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iCLD, nil},
	{0xF8, "SED", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iSED, nil},
	{0xB8, "CLV", MODE_IMPLIED, 2, kLOAD_INSTRUCTION, (*Processor).iCLV, nil},
}

// opcodes is the dispatch table indexed by opcode byte. nil means unknown.
// Built once from definitions and never modified.
var opcodes [256]*Opcode

func init() {
	for i := range definitions {
		d := &definitions[i]
		if opcodes[d.Op] != nil {
			panic(fmt.Sprintf("duplicate opcode definition 0x%.2X", d.Op))
		}
		opcodes[d.Op] = d
	}
}

// Lookup returns a copy of the table entry for op and whether one exists.
func Lookup(op uint8) (Opcode, bool) {
	d := opcodes[op]
	if d == nil {
		return Opcode{}, false
	}
	return *d, true
}

// resolve fetches the operand for mode leaving PC after the instruction.
// Cycles for each piece are deducted as it happens:
//
//	implied:    1 internal
//	immediate:  1 fetch
//	zp:         1 fetch + 1 read
//	zp,x zp,y:  1 fetch + 1 index add + 1 read
//	absolute:   2 fetch + 1 read
//
// Store and jump instructions skip the final read.
func (p *Processor) resolve(mode Mode, kind instructionMode) (operand, error) {
	switch mode {
	case MODE_IMPLIED:
		// Nothing to fetch but the 6502 still spends a tick here.
		p.cycles--
		return operand{}, nil
	case MODE_IMMEDIATE:
		v, err := p.fetchByte()
		return operand{val: v}, err
	case MODE_ZP:
		zp, err := p.fetchByte()
		if err != nil {
			return operand{}, err
		}
		return p.resolveAddr(uint16(zp), kind)
	case MODE_ZPX, MODE_ZPY:
		zp, err := p.fetchByte()
		if err != nil {
			return operand{}, err
		}
		reg := p.X
		if mode == MODE_ZPY {
			reg = p.Y
		}
		// Does this as a uint8 so it wraps within the zero page.
		addr := uint16(zp + reg)
		p.cycles--
		return p.resolveAddr(addr, kind)
	case MODE_ABSOLUTE:
		addr, err := p.fetchWord()
		if err != nil {
			return operand{}, err
		}
		return p.resolveAddr(addr, kind)
	}
	return operand{}, InvalidCPUState{fmt.Sprintf("addressing mode %d invalid", mode)}
}

func (p *Processor) resolveAddr(addr uint16, kind instructionMode) (operand, error) {
	if kind != kLOAD_INSTRUCTION {
		return operand{addr: addr}, nil
	}
	v, err := p.readByte(addr)
	return operand{val: v, addr: addr}, err
}

func (p *Processor) regA() uint8 { return p.A }
func (p *Processor) regX() uint8 { return p.X }
func (p *Processor) regY() uint8 { return p.Y }

func (p *Processor) iLDA(o operand) error {
	p.A = o.val
	return nil
}

func (p *Processor) iLDX(o operand) error {
	p.X = o.val
	return nil
}

func (p *Processor) iLDY(o operand) error {
	p.Y = o.val
	return nil
}

func (p *Processor) iSTA(o operand) error {
	return p.writeByte(o.addr, p.A)
}

func (p *Processor) iSTX(o operand) error {
	return p.writeByte(o.addr, p.X)
}

func (p *Processor) iSTY(o operand) error {
	return p.writeByte(o.addr, p.Y)
}

// iJSR implements the JSR instruction for jumping to a subroutine.
// PC currently points at the next instruction but the 6502 pushes the address
// of the last byte of the JSR. RTS handles this by adding one to the popped value.
func (p *Processor) iJSR(o operand) error {
	if err := p.pushWord(p.PC - 1); err != nil {
		return err
	}
	// Internal tick to move S.
	p.cycles--
	p.PC = o.addr
	return nil
}

// iRTS implements the RTS instruction and pops the PC off the stack adding one to it.
func (p *Processor) iRTS(operand) error {
	pc, err := p.popWord()
	if err != nil {
		return err
	}
	// One tick to pre-increment S and one to bump the popped PC.
	p.cycles -= 2
	p.PC = pc + 1
	return nil
}

func (p *Processor) iJMP(o operand) error {
	p.PC = o.addr
	return nil
}

func (p *Processor) iNOP(operand) error {
	return nil
}

func (p *Processor) iINX(operand) error {
	p.X++
	return nil
}

func (p *Processor) iINY(operand) error {
	p.Y++
	return nil
}

func (p *Processor) iDEX(operand) error {
	p.X--
	return nil
}

func (p *Processor) iDEY(operand) error {
	p.Y--
	return nil
}

func (p *Processor) iTAX(operand) error {
	p.X = p.A
	return nil
}

func (p *Processor) iTAY(operand) error {
	p.Y = p.A
	return nil
}

func (p *Processor) iTXA(operand) error {
	p.A = p.X
	return nil
}

func (p *Processor) iTYA(operand) error {
	p.A = p.Y
	return nil
}

func (p *Processor) iCLC(operand) error {
	p.Flags.Carry = false
	return nil
}

func (p *Processor) iSEC(operand) error {
	p.Flags.Carry = true
	return nil
}

func (p *Processor) iCLI(operand) error {
	p.Flags.InterruptDisable = false
	return nil
}

func (p *Processor) iSEI(operand) error {
	p.Flags.InterruptDisable = true
	return nil
}

func (p *Processor) iCLD(operand) error {
	p.Flags.Decimal = false
	return nil
}

func (p *Processor) iSED(operand) error {
	p.Flags.Decimal = true
	return nil
}

func (p *Processor) iCLV(operand) error {
	p.Flags.Overflow = false
	return nil
}
