package cpu

import "testing"

func TestFlagFunctions(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := uint8(v)
		if got, want := ZeroFlag(b), v == 0; got != want {
			t.Errorf("ZeroFlag(%.2X) = %t want %t", b, got, want)
		}
		if got, want := NegativeFlag(b), v >= 0x80; got != want {
			t.Errorf("NegativeFlag(%.2X) = %t want %t", b, got, want)
		}
	}
	for _, test := range []struct {
		res  uint16
		want bool
	}{
		{0x00FF, false},
		{0x0100, true},
		{0x0200, true},
		{0x0000, false},
	} {
		if got := CarryFlag(test.res); got != test.want {
			t.Errorf("CarryFlag(%.4X) = %t want %t", test.res, got, test.want)
		}
	}
	for _, test := range []struct {
		reg, arg uint8
		want     bool
	}{
		{0x50, 0x10, false},
		{0x50, 0x50, true}, // 80 + 80 = -96
		{0xD0, 0x90, true}, // -48 + -112 = 96
		{0xD0, 0xD0, false},
		{0x50, 0xD0, false},
	} {
		if got := OverflowFlag(test.reg, test.arg, test.reg+test.arg); got != test.want {
			t.Errorf("OverflowFlag(%.2X, %.2X) = %t want %t", test.reg, test.arg, got, test.want)
		}
	}
}

func TestFlagsP(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		p     uint8
		str   string
	}{
		{name: "clear", flags: Flags{}, p: P_S1, str: "nv-bdizc"},
		{name: "carry", flags: Flags{Carry: true}, p: P_S1 | P_CARRY, str: "nv-bdizC"},
		{name: "zero negative", flags: Flags{Zero: true, Negative: true}, p: P_S1 | P_ZERO | P_NEGATIVE, str: "Nv-bdiZc"},
		{
			name:  "all",
			flags: Flags{true, true, true, true, true, true, true},
			p:     0xFF,
			str:   "NV-BDIZC",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got, want := test.flags.P(), test.p; got != want {
				t.Errorf("P() = %.2X want %.2X", got, want)
			}
			if got, want := FlagsFromP(test.p), test.flags; got != want {
				t.Errorf("FlagsFromP(%.2X) = %+v want %+v", test.p, got, want)
			}
			if got, want := test.flags.String(), test.str; got != want {
				t.Errorf("String() = %q want %q", got, want)
			}
		})
	}
	// S1 is ignored on the way in.
	if got, want := FlagsFromP(0x00), FlagsFromP(P_S1); got != want {
		t.Errorf("S1 changed flags: %+v vs %+v", got, want)
	}
}
