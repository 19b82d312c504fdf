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

package asm

import (
	"io"
	"strconv"

	"github.com/db47h/iridium/vm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxOffset is the largest offset a label reference can encode.
const maxOffset = 255

// Assembler is a two-pass assembler. The first pass collects symbols and
// builds the read-only data segment, the second pass generates code against
// the frozen symbol table.
type Assembler struct {
	logger   *zap.Logger
	symbols  *SymbolTable
	warnings []*Error
}

// Option configures an Assembler.
type Option func(*Assembler)

// Logger sets the logger used for warnings and pass traces. The default is
// zap.L().
func Logger(l *zap.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// New returns a new Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{logger: zap.L()}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.Named("asm")
	return a
}

// Symbols returns the symbol table built by the last successful discovery
// pass, or nil.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Warnings returns the non-fatal diagnostics of the last assembly.
func (a *Assembler) Warnings() []*Error {
	return a.warnings
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// Assembly errors are returned as an ErrAsm value holding every error of the
// failing pass. No partial image is ever returned.
func (a *Assembler) Assemble(name string, r io.Reader) (*vm.Image, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	p, err := Parse(name, string(src))
	if err != nil {
		return nil, ErrAsm{err.(*Error)}
	}
	return a.AssembleProgram(p)
}

// AssembleProgram runs both passes on an already parsed program.
func (a *Assembler) AssembleProgram(p *Program) (*vm.Image, error) {
	a.symbols = nil
	a.warnings = nil

	d := &discovery{a: a, symbols: newSymbolTable()}
	d.run(p)
	if len(d.errs) > 0 {
		return nil, d.errs
	}
	a.symbols = d.symbols.freeze()
	a.logger.Debug("discovery done",
		zap.Int("symbols", a.symbols.Len()),
		zap.Int("data", len(d.data)),
		zap.Int("code", d.codeOff))

	code, errs := generate(p, a.symbols)
	if len(errs) > 0 {
		return nil, errs
	}
	a.logger.Debug("code generation done", zap.Int("code", len(code)))
	return &vm.Image{Data: d.data, Code: code}, nil
}

func (a *Assembler) warn(w *Error) {
	a.warnings = append(a.warnings, w)
	a.logger.Warn(w.Error())
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// encoded image. See Assembler.Assemble.
func Assemble(name string, r io.Reader) ([]byte, error) {
	img, err := New().Assemble(name, r)
	if err != nil {
		return nil, err
	}
	return img.Bytes(), nil
}

// discovery is the first pass.
type discovery struct {
	a       *Assembler
	section Section
	codeOff int
	symbols *SymbolTable
	data    []byte
	errs    ErrAsm
}

func (d *discovery) errorf(ins *Instruction, kind ErrorKind, msg string) {
	d.errs = append(d.errs, &Error{Kind: kind, Pos: ins.Pos, Msg: msg})
}

// label validates the label declaration of ins, if any. It returns the label
// name and true only if the label can be bound.
func (d *discovery) label(ins *Instruction) (string, bool) {
	name, ok := ins.LabelName()
	if !ok {
		return "", false
	}
	if d.section == NoSection {
		d.errorf(ins, NoSegmentDeclaration, "label "+name+" declared outside of any section")
		return "", false
	}
	if prev, ok := d.symbols.Lookup(name); ok {
		d.errorf(ins, DuplicateSymbol, name+", previous definition here: "+prev.Pos.String())
		return "", false
	}
	return name, true
}

func (d *discovery) bind(ins *Instruction, name string, section Section, offset int) {
	if offset > maxOffset {
		d.errorf(ins, SymbolOffsetOverflow, name+" at offset "+strconv.Itoa(offset))
		return
	}
	d.symbols.declare(Symbol{Name: name, Section: section, Offset: uint8(offset), Pos: ins.Pos})
}

func (d *discovery) run(p *Program) {
	for k := range p.Instructions {
		ins := &p.Instructions[k]
		switch h := ins.Head.(type) {
		case Op:
			if name, ok := d.label(ins); ok {
				d.bind(ins, name, CodeSection, d.codeOff)
			}
			d.codeOff += vm.InstructionSize
		case Directive:
			d.directive(ins, h.Name)
		}
	}
}

func (d *discovery) directive(ins *Instruction, name string) {
	if len(ins.Operands) == 0 {
		// section header
		if lbl, ok := d.label(ins); ok {
			d.bindCurrent(ins, lbl)
		}
		s, ok := sectionNames[name]
		if !ok {
			d.a.warn(&Error{Kind: UnknownSection, Pos: ins.Pos, Msg: "." + name})
			return
		}
		d.section = s
		return
	}
	switch name {
	case "asciiz":
		d.asciiz(ins)
	default:
		d.errorf(ins, UnknownDirective, "."+name)
	}
}

// bindCurrent binds a label to the current offset of the active section.
func (d *discovery) bindCurrent(ins *Instruction, name string) {
	if d.section == DataSection {
		d.bind(ins, name, DataSection, len(d.data))
	} else {
		d.bind(ins, name, CodeSection, d.codeOff)
	}
}

func (d *discovery) asciiz(ins *Instruction) {
	s, ok := ins.Operands[0].(String)
	if !ok || len(ins.Operands) > 1 {
		d.errorf(ins, InvalidOperand, ".asciiz expects a single string operand")
		return
	}
	if ins.Label == nil {
		d.a.warn(&Error{Kind: StringConstantWithoutLabel, Pos: ins.Pos, Msg: s.String()})
		return
	}
	name, ok := d.label(ins)
	if !ok {
		return
	}
	if len(d.data)+len(s.Text)+1 > vm.MaxDataSize {
		d.errorf(ins, DataSegmentOverflow, name+": "+strconv.Itoa(len(d.data)+len(s.Text)+1)+" bytes exceeds "+strconv.Itoa(vm.MaxDataSize))
		return
	}
	d.bind(ins, name, DataSection, len(d.data))
	d.data = append(d.data, s.Text...)
	d.data = append(d.data, 0)
}

// generate is the second pass. It only reads the symbol table.
func generate(p *Program, symbols *SymbolTable) ([]byte, ErrAsm) {
	var errs ErrAsm
	code := make([]byte, 0, len(p.Instructions)*vm.InstructionSize)
	for k := range p.Instructions {
		ins := &p.Instructions[k]
		op, ok := ins.Head.(Op)
		if !ok {
			continue
		}
		b, err := encode(ins, op, symbols)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		code = append(code, b[:]...)
	}
	return code, errs
}

// encode serializes a single opcode record. Missing operand bytes are zero.
func encode(ins *Instruction, op Op, symbols *SymbolTable) (b [vm.InstructionSize]byte, err *Error) {
	b[0] = byte(op.Code)
	n := 1
	put := func(v ...byte) bool {
		if n+len(v) > vm.InstructionSize {
			err = &Error{Kind: InvalidOperand, Pos: ins.Pos, Msg: "operands of " + op.String() + " exceed instruction size"}
			return false
		}
		n += copy(b[n:], v)
		return true
	}
	for _, o := range ins.Operands {
		switch o := o.(type) {
		case Register:
			if int(o.Index) >= vm.RegisterCount {
				return b, &Error{Kind: InvalidRegister, Pos: ins.Pos, Msg: o.String()}
			}
			if !put(o.Index) {
				return b, err
			}
		case Immediate:
			v := uint16(o.Value)
			if !put(byte(v>>8), byte(v)) {
				return b, err
			}
		case LabelRef:
			s, ok := symbols.Lookup(o.Name)
			if !ok {
				return b, &Error{Kind: UnresolvedSymbol, Pos: ins.Pos, Msg: o.Name}
			}
			if !put(s.Offset) {
				return b, err
			}
		case Op, LabelDecl, Directive, String:
			return b, &Error{Kind: InvalidOperand, Pos: ins.Pos, Msg: o.String() + " is not a valid operand for " + op.String()}
		}
	}
	return b, nil
}
