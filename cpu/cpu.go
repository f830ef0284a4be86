// Package cpu defines a 6502 class instruction core and provides
// the methods needed to run it against a cycle budget and inspect
// the resulting state.
package cpu

import (
	"errors"
	"fmt"

	"github.com/jmchacon/6502core/memory"
)

const (
	RESET_VECTOR = uint16(0xFFFC)
	STACK_START  = uint16(0x10FF)
)

// UnknownOpcodePolicy determines what happens on a dispatch table miss.
type UnknownOpcodePolicy int

const (
	UNKNOWN_FATAL UnknownOpcodePolicy = iota // Halt with an UnknownOpcode error.
	UNKNOWN_NOP                              // Compatibility mode. Consume the byte as a 1 cycle NOP.
)

// BudgetMode determines how the last instruction of a budget is treated.
type BudgetMode int

const (
	BUDGET_SOFT BudgetMode = iota // Never pre-check, the last instruction may overshoot.
	BUDGET_HARD                   // Stop before any instruction whose cost exceeds what remains.
)

// Config describes the machine Init will build.
type Config struct {
	MemorySize int    // Between 1 and memory.MAX_SIZE.
	ResetPC    uint16 // Initial program counter. Must be inside memory.
	StackStart uint16 // Initial stack pointer. Must be inside memory.
	Unknown    UnknownOpcodePolicy
	Budget     BudgetMode
}

// DefaultConfig returns the configuration Reset uses.
func DefaultConfig() Config {
	return Config{
		MemorySize: memory.MAX_SIZE,
		ResetPC:    RESET_VECTOR,
		StackStart: STACK_START,
		Unknown:    UNKNOWN_FATAL,
		Budget:     BUDGET_SOFT,
	}
}

type Processor struct {
	A     uint8        // Accumulator register
	X     uint8        // X register
	Y     uint8        // Y register
	SP    uint16       // Stack pointer. A full index into Ram, not page 1 relative.
	PC    uint16       // Program counter
	Flags Flags        // Processor status
	Ram   *memory.Flat // Owned exclusively by this Processor.

	cycles  int // Remaining budget. Goes negative when the last instruction overshoots.
	cfg     Config
	halted  bool  // Set once a fatal error stops the CPU.
	haltErr error // Returned again on every Step once halted.
}

// ErrCycleBudgetExhausted is returned when a new instruction is requested with no cycles left.
var ErrCycleBudgetExhausted = errors.New("cycle budget exhausted")

// ErrUnknownOpcode is matched (via errors.Is) by every UnknownOpcode.
var ErrUnknownOpcode = errors.New("unknown opcode")

// UnknownOpcode represents a byte with no entry in the dispatch table.
type UnknownOpcode struct {
	Opcode uint8
	PC     uint16
}

// Error implements the interface for error types.
func (e UnknownOpcode) Error() string {
	return fmt.Sprintf("0x%.2X at PC 0x%.4X is an unknown opcode", e.Opcode, e.PC)
}

// Is allows errors.Is(err, ErrUnknownOpcode).
func (e UnknownOpcode) Is(target error) bool {
	return target == ErrUnknownOpcode
}

// InvalidCPUState represents an invalid CPU state in the emulator.
type InvalidCPUState struct {
	Reason string
}

// Error implements the interface for error types.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// InvalidConfig is returned by Init for a Config that can't be built.
type InvalidConfig struct {
	Reason string
}

// Error implements the interface for error types.
func (e InvalidConfig) Error() string {
	return fmt.Sprintf("invalid CPU config: %s", e.Reason)
}

// Reset returns a freshly powered on CPU using DefaultConfig. PC is at RESET_VECTOR,
// SP at STACK_START and all registers, flags and memory are zero.
func Reset() *Processor {
	p, err := Init(DefaultConfig())
	if err != nil {
		// DefaultConfig is always valid.
		panic(err)
	}
	return p
}

// Init will create a new CPU with its own memory as described by cfg and return it in powered on state.
func Init(cfg Config) (*Processor, error) {
	r, err := memory.NewFlat(cfg.MemorySize)
	if err != nil {
		return nil, InvalidConfig{err.Error()}
	}
	if int(cfg.ResetPC) >= cfg.MemorySize {
		return nil, InvalidConfig{fmt.Sprintf("reset PC 0x%.4X outside memory of size 0x%.4X", cfg.ResetPC, cfg.MemorySize)}
	}
	if int(cfg.StackStart) >= cfg.MemorySize {
		return nil, InvalidConfig{fmt.Sprintf("stack 0x%.4X outside memory of size 0x%.4X", cfg.StackStart, cfg.MemorySize)}
	}
	if cfg.Unknown != UNKNOWN_FATAL && cfg.Unknown != UNKNOWN_NOP {
		return nil, InvalidConfig{fmt.Sprintf("unknown opcode policy %d", cfg.Unknown)}
	}
	if cfg.Budget != BUDGET_SOFT && cfg.Budget != BUDGET_HARD {
		return nil, InvalidConfig{fmt.Sprintf("budget mode %d", cfg.Budget)}
	}
	p := &Processor{
		Ram: r,
		cfg: cfg,
	}
	p.PowerOn()
	return p, nil
}

// PowerOn zeroes memory, registers and flags and loads PC/SP from the config.
func (p *Processor) PowerOn() {
	p.Ram.PowerOn()
	p.A = 0
	p.X = 0
	p.Y = 0
	p.Flags = Flags{}
	p.PC = p.cfg.ResetPC
	p.SP = p.cfg.StackStart
	p.cycles = 0
	p.halted = false
	p.haltErr = nil
}

// Remaining returns the cycles left from the last budget. A negative value
// is how far the final instruction overshot it.
func (p *Processor) Remaining() int {
	return p.cycles
}

// SetBudget replaces the remaining cycles used by Step.
func (p *Processor) SetBudget(n int) {
	p.cycles = n
}

// Halted reports whether a fatal error has stopped the CPU. Only PowerOn clears this.
func (p *Processor) Halted() bool {
	return p.halted
}

// Execute runs instructions until budget cycles have been consumed. Each instruction
// completes before the budget is checked again so in BUDGET_SOFT mode the final one
// may overshoot (see Remaining). A budget <= 0 returns immediately without changing anything.
// Running out of cycles is not an error. Any other error halts the CPU and is returned.
func (p *Processor) Execute(budget int) error {
	if budget <= 0 {
		return nil
	}
	p.SetBudget(budget)
	for p.cycles > 0 {
		if _, err := p.Step(); err != nil {
			if errors.Is(err, ErrCycleBudgetExhausted) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Step runs exactly one instruction against the remaining budget and returns
// the cycles it consumed. ErrCycleBudgetExhausted is returned (and nothing executes)
// if no cycles remain or, in BUDGET_HARD mode, if the instruction can't be afforded.
func (p *Processor) Step() (int, error) {
	// Fast path if halted. The PC won't advance. i.e. we just keep returning the same error.
	if p.halted {
		return 0, p.haltErr
	}
	if p.cfg.Budget == BUDGET_HARD && p.cycles > 0 {
		b, err := p.Ram.Read(p.PC)
		if err != nil {
			return 0, p.halt(err)
		}
		if def := opcodes[b]; def != nil && def.Cycles > p.cycles {
			return 0, ErrCycleBudgetExhausted
		}
	}

	start := p.cycles
	pc := p.PC
	op, err := p.fetchOpcode()
	if err != nil {
		if errors.Is(err, ErrCycleBudgetExhausted) {
			return 0, err
		}
		return start - p.cycles, p.halt(err)
	}

	def := opcodes[op]
	if def == nil {
		if p.cfg.Unknown == UNKNOWN_NOP {
			return start - p.cycles, nil
		}
		// Leave PC on the offending byte so the state shows where we stopped.
		p.PC = pc
		return start - p.cycles, p.halt(UnknownOpcode{Opcode: op, PC: pc})
	}

	o, err := p.resolve(def.Mode, def.kind)
	if err == nil {
		err = def.exec(p, o)
	}
	if err != nil {
		return start - p.cycles, p.halt(fmt.Errorf("%s at PC 0x%.4X: %w", def.Name, pc, err))
	}
	if def.result != nil {
		v := def.result(p)
		p.Flags.Zero = ZeroFlag(v)
		p.Flags.Negative = NegativeFlag(v)
	}
	return start - p.cycles, nil
}

func (p *Processor) halt(err error) error {
	p.halted = true
	p.haltErr = err
	return err
}

// fetchOpcode starts a new instruction so it's the only fetch which checks the budget.
func (p *Processor) fetchOpcode() (uint8, error) {
	if p.cycles <= 0 {
		return 0, ErrCycleBudgetExhausted
	}
	return p.fetchByte()
}

// fetchByte reads the byte at PC and advances it. 1 cycle.
func (p *Processor) fetchByte() (uint8, error) {
	v, err := p.Ram.Read(p.PC)
	if err != nil {
		return 0, err
	}
	p.PC++
	p.cycles--
	return v, nil
}

// fetchWord reads a little endian word at PC and advances it by 2. 2 cycles.
func (p *Processor) fetchWord() (uint16, error) {
	lo, err := p.fetchByte()
	if err != nil {
		return 0, err
	}
	hi, err := p.fetchByte()
	if err != nil {
		return 0, err
	}
	return (uint16(hi) << 8) + uint16(lo), nil
}

// readByte reads from an explicit address without touching PC. 1 cycle.
func (p *Processor) readByte(addr uint16) (uint8, error) {
	v, err := p.Ram.Read(addr)
	if err != nil {
		return 0, err
	}
	p.cycles--
	return v, nil
}

// writeByte stores val at addr. 1 cycle.
func (p *Processor) writeByte(addr uint16, val uint8) error {
	if _, err := p.Ram.Write(addr, val); err != nil {
		return err
	}
	p.cycles--
	return nil
}

// pushWord pushes the high byte and then the low byte, decrementing SP after each
// so the low byte ends up at SP+1. 2 cycles.
func (p *Processor) pushWord(val uint16) error {
	if err := p.writeByte(p.SP, uint8((val&0xFF00)>>8)); err != nil {
		return err
	}
	p.SP--
	if err := p.writeByte(p.SP, uint8(val&0xFF)); err != nil {
		return err
	}
	p.SP--
	return nil
}

// popWord is the inverse of pushWord. 2 cycles.
func (p *Processor) popWord() (uint16, error) {
	lo, err := p.readByte(p.SP + 1)
	if err != nil {
		return 0, err
	}
	p.SP++
	hi, err := p.readByte(p.SP + 1)
	if err != nil {
		return 0, err
	}
	p.SP++
	return (uint16(hi) << 8) + uint16(lo), nil
}
