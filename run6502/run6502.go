// run6502 takes a raw binary image, loads it into an
// otherwise zero'd memory and executes it for a number
// of cycles. The final CPU state is printed on exit.
//
// With no filename the classic smoke test is loaded instead:
// LDA #$42 at the reset vector.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/jmchacon/6502core/cpu"
	"github.com/jmchacon/6502core/disassemble"
	"github.com/jmchacon/6502core/memory"
)

var (
	offset     = flag.Int("offset", int(cpu.RESET_VECTOR), "Offset into RAM to start loading data.")
	startPC    = flag.Int("start_pc", int(cpu.RESET_VECTOR), "PC value to start execution")
	stack      = flag.Int("stack", int(cpu.STACK_START), "Initial stack pointer")
	cycles     = flag.Int("cycles", 2, "Cycle budget to execute")
	memSize    = flag.Int("memory_size", memory.MAX_SIZE, "Size of memory in bytes, 1-65536")
	unknownNOP = flag.Bool("unknown_nop", false, "If set, unknown opcodes are 1 cycle NOPs instead of halting")
	hardBudget = flag.Bool("hard_budget", false, "If set, never start an instruction the remaining budget can't pay for")
	trace      = flag.Bool("trace", false, "If set, disassemble each instruction before it runs")
	dump       = flag.Bool("dump", false, "If set, dump the full processor state when done")
	dumpZP     = flag.Bool("dump_zp", false, "If set, hex dump the zero page when done")
)

func main() {
	flag.Parse()
	if len(flag.Args()) > 1 {
		log.Fatalf("Invalid command: %s [flags] [<filename>]", os.Args[0])
	}
	if *startPC < 0 || *startPC > 65535 {
		log.Fatal("--start_pc out of range. Must be between 0-65535")
	}
	if *stack < 0 || *stack > 65535 {
		log.Fatal("--stack out of range. Must be between 0-65535")
	}
	if *offset < 0 || *offset > 65535 {
		log.Fatal("--offset out of range. Must be between 0-65535")
	}

	cfg := cpu.DefaultConfig()
	cfg.MemorySize = *memSize
	cfg.ResetPC = uint16(*startPC)
	cfg.StackStart = uint16(*stack)
	if *unknownNOP {
		cfg.Unknown = cpu.UNKNOWN_NOP
	}
	if *hardBudget {
		cfg.Budget = cpu.BUDGET_HARD
	}
	c, err := cpu.Init(cfg)
	if err != nil {
		log.Fatalf("Can't initialize cpu - %v", err)
	}

	b := []byte{0xA9, 0x42} // LDA #$42
	if len(flag.Args()) == 1 {
		fn := flag.Args()[0]
		if b, err = ioutil.ReadFile(fn); err != nil {
			log.Fatalf("Can't open %s - %v", fn, err)
		}
	}
	if err := c.Ram.Load(uint16(*offset), b); err != nil {
		log.Fatalf("Can't load image - %v", err)
	}

	if err := run(c, *cycles, *trace); err != nil {
		fmt.Printf("CPU halted: %v\n", err)
	}

	fmt.Printf("PC: %.4X A: %.2X X: %.2X Y: %.2X SP: %.4X P: %s (%.2X) remaining: %d\n",
		c.PC, c.A, c.X, c.Y, c.SP, c.Flags, c.Flags.P(), c.Remaining())
	if *dump {
		// Memory is left out, use --dump_zp for that.
		s := *c
		s.Ram = nil
		fmt.Print(spew.Sdump(s))
	}
	if *dumpZP {
		zp := make([]byte, 0, 256)
		for a := 0; a < 256 && a < c.Ram.Size(); a++ {
			v, _ := c.Ram.Read(uint16(a))
			zp = append(zp, v)
		}
		fmt.Print(hex.Dump(zp))
	}
	if c.Halted() {
		os.Exit(1)
	}
}

// run executes budget cycles, a single instruction at a time if tracing.
func run(c *cpu.Processor, budget int, trace bool) error {
	if !trace {
		return c.Execute(budget)
	}
	if budget <= 0 {
		return nil
	}
	c.SetBudget(budget)
	for c.Remaining() > 0 {
		dis, _, err := disassemble.Step(c.PC, c.Ram)
		if err != nil {
			dis = fmt.Sprintf("%.4X %v", c.PC, err)
		}
		n, err := c.Step()
		if errors.Is(err, cpu.ErrCycleBudgetExhausted) {
			return nil
		}
		fmt.Printf("%s ; %d cycles\n", dis, n)
		if err != nil {
			return err
		}
	}
	return nil
}
