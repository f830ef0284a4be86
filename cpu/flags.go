package cpu

const (
	P_NEGATIVE  = uint8(0x80)
	P_OVERFLOW  = uint8(0x40)
	P_S1        = uint8(0x20) // Always 1
	P_B         = uint8(0x10)
	P_DECIMAL   = uint8(0x8)
	P_INTERRUPT = uint8(0x4)
	P_ZERO      = uint8(0x2)
	P_CARRY     = uint8(0x1)
)

// Flags holds the seven status bits as independent values.
type Flags struct {
	Carry            bool
	Zero             bool
	InterruptDisable bool
	Decimal          bool
	Break            bool
	Overflow         bool
	Negative         bool
}

// P packs the flags into a 6502 status byte. P_S1 is always set.
func (f Flags) P() uint8 {
	p := P_S1
	for _, b := range []struct {
		set bool
		bit uint8
	}{
		{f.Carry, P_CARRY},
		{f.Zero, P_ZERO},
		{f.InterruptDisable, P_INTERRUPT},
		{f.Decimal, P_DECIMAL},
		{f.Break, P_B},
		{f.Overflow, P_OVERFLOW},
		{f.Negative, P_NEGATIVE},
	} {
		if b.set {
			p |= b.bit
		}
	}
	return p
}

// FlagsFromP unpacks a status byte. P_S1 is ignored.
func FlagsFromP(p uint8) Flags {
	return Flags{
		Carry:            p&P_CARRY != 0,
		Zero:             p&P_ZERO != 0,
		InterruptDisable: p&P_INTERRUPT != 0,
		Decimal:          p&P_DECIMAL != 0,
		Break:            p&P_B != 0,
		Overflow:         p&P_OVERFLOW != 0,
		Negative:         p&P_NEGATIVE != 0,
	}
}

// String renders the flags in the usual NV-BDIZC order with unset flags lower case.
func (f Flags) String() string {
	out := []byte("nv-bdizc")
	for i, set := range []bool{f.Negative, f.Overflow, true, f.Break, f.Decimal, f.InterruptDisable, f.Zero, f.Carry} {
		if set && out[i] != '-' {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}

// ZeroFlag is true iff val is zero.
func ZeroFlag(val uint8) bool {
	return val == 0
}

// NegativeFlag is true iff bit 7 of val is set.
func NegativeFlag(val uint8) bool {
	return val&P_NEGATIVE != 0
}

// CarryFlag is true if an 8 bit ALU operation (passed as a 16 bit result)
// carried out by generating a value >= 0x100.
func CarryFlag(res uint16) bool {
	return res >= 0x100
}

// OverflowFlag is true if reg op arg = res caused a two's complement sign change.
// Taken from http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
func OverflowFlag(reg uint8, arg uint8, res uint8) bool {
	return (reg^res)&(arg^res)&0x80 != 0x00
}
