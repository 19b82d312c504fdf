// This file is part of iridium - https://github.com/db47h/iridium
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package repl implements an interactive front end to the VM: it reads
// assembly or raw hexadecimal instructions line by line, appends them to the
// VM's code buffer and executes them one at a time.
package repl

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/db47h/iridium/asm"
	"github.com/db47h/iridium/internal/iio"
	"github.com/db47h/iridium/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Prompt is the prompt displayed by terminal line readers.
const Prompt = ">>> "

// LineReader reads input one line at a time. It is implemented by
// *term.Terminal from golang.org/x/term.
type LineReader interface {
	ReadLine() (string, error)
}

type scanReader struct {
	s *bufio.Scanner
}

func (r scanReader) ReadLine() (string, error) {
	if r.s.Scan() {
		return r.s.Text(), nil
	}
	if err := r.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// NewLineReader returns a LineReader reading lines from r.
func NewLineReader(r io.Reader) LineReader {
	return scanReader{bufio.NewScanner(r)}
}

// REPL is a read-eval-print loop driving a VM instance.
type REPL struct {
	vm       *vm.Instance
	logger   *zap.Logger
	maxSteps int
	history  []string
	out      *iio.ErrWriter
}

// Option configures a REPL.
type Option func(*REPL)

// Logger sets the logger passed to the assembler. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(r *REPL) { r.logger = l }
}

// MaxSteps sets the maximum number of instructions executed by the .run
// command. The default is 1000000.
func MaxSteps(n int) Option {
	return func(r *REPL) { r.maxSteps = n }
}

// New returns a new REPL driving the given VM instance.
func New(i *vm.Instance, opts ...Option) *REPL {
	r := &REPL{
		vm:       i,
		logger:   zap.L(),
		maxSteps: 1000000,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the lines entered so far.
func (r *REPL) History() []string {
	return r.history
}

var help = `Commands:
  .program          list instructions in the program buffer
  .registers        list registers, flags and program counter
  .heap             dump the heap
  .ro               dump the read-only data segment
  .run              run until the VM halts or faults
  .load_file <file> assemble a file and replace the program with it
  .reset            reset the VM state, keeping the program
  .history          list previous input
  .quit             exit the REPL
Any other input is assembled, or decoded as space separated hex bytes, then
appended to the program and executed. Labels are not supported.
`

// Run reads and evaluates lines from in until the .quit command or the end of
// input. Output is written to w. Run returns nil on .quit or io.EOF, or the
// first read or write error.
func (r *REPL) Run(in LineReader, w io.Writer) error {
	r.out = iio.NewErrWriter(w)
	for {
		line, err := in.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "read failed")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history = append(r.history, line)
		if quit := r.eval(line); quit {
			return r.out.Err
		}
		if r.out.Err != nil {
			return r.out.Err
		}
	}
}

func (r *REPL) eval(line string) (quit bool) {
	cmd, arg := line, ""
	if n := strings.IndexAny(line, " \t"); n > 0 {
		cmd, arg = line[:n], strings.TrimSpace(line[n:])
	}
	switch cmd {
	case ".quit":
		r.out.WriteString("Farewell!\n")
		return true
	case ".help":
		r.out.WriteString(help)
	case ".program":
		asm.DisassembleAll(r.vm.Program(), 0, r.out)
	case ".registers":
		r.registers()
	case ".heap":
		spew.Fdump(r.out, r.vm.Heap())
	case ".ro":
		spew.Fdump(r.out, r.vm.ReadOnly())
	case ".history":
		for _, l := range r.history {
			r.out.Printf("%s\n", l)
		}
	case ".reset":
		r.vm.Reset()
	case ".run":
		r.run()
	case ".load_file":
		r.loadFile(arg)
	default:
		r.input(line)
	}
	return false
}

func (r *REPL) registers() {
	regs := r.vm.Registers()
	for k, v := range regs {
		r.out.Printf("$%-2d %11d", k, v)
		if k%4 == 3 {
			r.out.WriteString("\n")
		} else {
			r.out.WriteString("  ")
		}
	}
	r.out.Printf("pc %d  equal %t  remainder %d\n", r.vm.PC, r.vm.Equal(), r.vm.Remainder())
}

func (r *REPL) report(s vm.Signal) {
	switch s {
	case vm.Halted:
		r.out.Printf("halted at %d\n", r.vm.PC)
	case vm.Faulted:
		r.out.Printf("fault: %v\n", r.vm.Err())
	}
}

func (r *REPL) run() {
	s := vm.Continue
	for n := 0; n < r.maxSteps && s == vm.Continue; n++ {
		s = r.vm.Step()
	}
	if s == vm.Continue {
		r.out.Printf("stopped after %d steps at %d\n", r.maxSteps, r.vm.PC)
		return
	}
	r.report(s)
}

func (r *REPL) loadFile(name string) {
	if name == "" {
		r.out.WriteString("usage: .load_file <file>\n")
		return
	}
	f, err := os.Open(name)
	if err != nil {
		r.out.Printf("%v\n", err)
		return
	}
	defer f.Close()
	img, err := asm.New(asm.Logger(r.logger)).Assemble(name, f)
	if err != nil {
		r.out.Printf("%v\n", err)
		return
	}
	// jump targets in img are relative to its first instruction
	r.vm.Clear()
	r.vm.LoadImage(img)
	r.out.Printf("loaded %d bytes of code, %d bytes of data\n", len(img.Code), len(img.Data))
}

// input assembles line as code, or decodes it as hex bytes, and executes a
// single instruction.
func (r *REPL) input(line string) {
	code, err := r.assemble(line)
	if err != nil {
		if errs, ok := err.(asm.ErrAsm); !ok || errs[0].Kind != asm.SyntaxError {
			r.out.Printf("%v\n", err)
			return
		}
		var herr error
		if code, herr = parseHex(line); herr != nil {
			r.out.Printf("%v\nunable to decode hex: %v\n", err, herr)
			return
		}
	}
	r.vm.Load(code)
	r.report(r.vm.Step())
}

func (r *REPL) assemble(line string) ([]byte, error) {
	p, err := asm.Parse("input", line)
	if err != nil {
		return nil, asm.ErrAsm{err.(*asm.Error)}
	}
	for k := range p.Instructions {
		if ins := &p.Instructions[k]; ins.Label != nil {
			return nil, errors.Errorf("%s: label %s: labels are not supported in interactive input", ins.Pos, ins.Label.Name)
		}
	}
	// input lines are always code
	p.Instructions = append([]asm.Instruction{{Head: asm.Directive{Name: "code"}}}, p.Instructions...)
	img, err := asm.New(asm.Logger(r.logger)).AssembleProgram(p)
	if err != nil {
		return nil, err
	}
	return img.Code, nil
}

func parseHex(line string) ([]byte, error) {
	var b []byte
	for _, f := range strings.Fields(line) {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, errors.Errorf("invalid hex byte %q", f)
		}
		b = append(b, byte(v))
	}
	return b, nil
}
