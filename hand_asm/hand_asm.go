// hand_asm takes a filename and produces a bin file
// from parsing the output as a hand assembled file
// of the form:
//
//	XXXX OP A1 A2    MNEMONIC OPERAND
//
// Where XXXX is the address field and OP is the opcode
// A1,A2 are then optional params as needed. Anything after
// a ';' is a comment and lines not starting with an address
// are skipped. Bytes land at their address in the image so the
// result can be handed straight to run6502 with --offset=0.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmchacon/6502core/cpu"
	"github.com/jmchacon/6502core/memory"
)

var (
	size   = flag.Int("size", 0, "Size of the output image. Defaults to just past the highest address written.")
	strict = flag.Bool("strict", false, "If set, opcodes the CPU doesn't know or with the wrong operand count are an error.")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("Invalid command: %s <input> <output>", os.Args[0])
	}
	fn := flag.Args()[0]
	out := flag.Args()[1]

	in, err := os.Open(fn)
	if err != nil {
		log.Fatalf("Can't open %q for input - %v", fn, err)
	}
	output, err := assemble(in, *size, *strict)
	in.Close()
	if err != nil {
		log.Fatalf("Can't process %q - %v", fn, err)
	}

	of, err := os.Create(out)
	if err != nil {
		log.Fatalf("Can't open output %q - %v", out, err)
	}
	n, err := of.Write(output)
	if got, want := n, len(output); got != want {
		log.Fatalf("Short write to %q. Got %d and want %d", out, got, want)
	}
	if err != nil {
		log.Fatalf("Got error writing to %q - %v", out, err)
	}
	if err := of.Close(); err != nil {
		log.Fatalf("Error closing %q - %v", out, err)
	}
}

// assemble parses the listing in r into an image. If size is 0 the image ends
// after the highest byte written.
func assemble(r io.Reader, size int, strict bool) ([]byte, error) {
	if size < 0 || size > memory.MAX_SIZE {
		return nil, fmt.Errorf("size %d out of range 0-%d", size, memory.MAX_SIZE)
	}
	output := make([]byte, memory.MAX_SIZE)
	high := 0
	scanner := bufio.NewScanner(r)
	l := 0
	for scanner.Scan() {
		l++
		t := scanner.Text()
		if i := strings.Index(t, ";"); i >= 0 {
			t = t[:i]
		}
		toks := strings.Fields(t)
		if len(toks) == 0 || len(toks[0]) != 4 {
			continue
		}
		addr, err := strconv.ParseUint(toks[0], 16, 16)
		if err != nil {
			continue
		}
		// The byte field ends at the first token which isn't 2 characters (the mnemonic usually).
		var bytes []string
		for _, v := range toks[1:] {
			if len(v) != 2 {
				break
			}
			bytes = append(bytes, v)
		}
		// Should be 1-3 tokens
		if len(bytes) == 0 || len(bytes) > 3 {
			return nil, fmt.Errorf("invalid line %d - %q", l, scanner.Text())
		}
		var b []byte
		for _, v := range bytes {
			n, err := strconv.ParseUint(v, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("can't process input line %d %q - %v", l, scanner.Text(), err)
			}
			b = append(b, byte(n))
		}
		if strict {
			def, ok := cpu.Lookup(b[0])
			if !ok {
				return nil, fmt.Errorf("line %d: 0x%.2X is not a known opcode", l, b[0])
			}
			if got, want := len(b), def.Mode.Bytes(); got != want {
				return nil, fmt.Errorf("line %d: %s takes %d bytes, got %d", l, def.Name, want, got)
			}
		}
		end := int(addr) + len(b)
		if end > memory.MAX_SIZE {
			return nil, fmt.Errorf("line %d runs past the end of memory", l)
		}
		copy(output[addr:], b)
		if end > high {
			high = end
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if size == 0 {
		size = high
	}
	if high > size {
		return nil, fmt.Errorf("highest address 0x%.4X doesn't fit in size %d", high-1, size)
	}
	return output[:size], nil
}
