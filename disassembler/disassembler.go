// disassembler takes a filename and loads it and then
// disassembles it to stdout starting at the first instruction.
// The image is loaded at --offset into an otherwise zero'd 64k memory.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/jmchacon/6502core/disassemble"
	"github.com/jmchacon/6502core/memory"
)

var (
	startPC = flag.Int("start_pc", -1, "PC value to start disassembling. Defaults to --offset")
	offset  = flag.Int("offset", 0x0000, "Offset into RAM to start loading data. All other RAM will be zero'd out.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [--start_pc <PC> --offset <offset>] <filename>", os.Args[0])
	}
	if *offset < 0 || *offset >= memory.MAX_SIZE {
		log.Fatalf("--offset out of range. Must be between 0-%d", memory.MAX_SIZE-1)
	}
	if *startPC < 0 {
		*startPC = *offset
	}
	if *startPC >= memory.MAX_SIZE {
		log.Fatalf("--start_pc out of range. Must be between 0-%d", memory.MAX_SIZE-1)
	}
	fn := flag.Args()[0]

	f, err := memory.NewFlat(memory.MAX_SIZE)
	if err != nil {
		log.Fatalf("Can't create memory - %v", err)
	}
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	max := memory.MAX_SIZE - *offset
	if l := len(b); l > max {
		log.Printf("Length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}
	if err := f.Load(uint16(*offset), b); err != nil {
		log.Fatalf("Can't load %s - %v", fn, err)
	}
	pc := uint16(*startPC)
	fmt.Printf("0x%.2X bytes at pc: %.4X\n", len(b), pc)

	cnt := 0
	// Can't base it on PC since it may rollover so just disassemble until we run out of buffer.
	for cnt < len(b) {
		dis, off, err := disassemble.Step(pc, f)
		if err != nil {
			// Only happens when the last instruction's operand runs off the end of memory.
			fmt.Printf("%.4X %v\n", pc, err)
			os.Exit(1)
		}
		pc += uint16(off)
		cnt += off
		fmt.Printf("%s\n", dis)
	}
}
