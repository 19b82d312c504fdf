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
	"strconv"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/db47h/iridium/vm"
)

// maxOperands is the maximum number of operands per instruction.
const maxOperands = 3

func isNameStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isNameRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

type parser struct {
	src  string
	off  int
	pos  scanner.Position
	prog *Program
}

func newParser(name, src string) *parser {
	return &parser{
		src:  src,
		pos:  scanner.Position{Filename: name, Line: 1, Column: 1},
		prog: new(Program),
	}
}

func (p *parser) peek() rune {
	if p.off >= len(p.src) {
		return scanner.EOF
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.off:])
	return r
}

func (p *parser) next() rune {
	if p.off >= len(p.src) {
		return scanner.EOF
	}
	r, sz := utf8.DecodeRuneInString(p.src[p.off:])
	p.off += sz
	p.pos.Offset = p.off
	if r == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
	return r
}

// skipSpace skips white space and comments. Comments start with ';' and run
// to the end of the line.
func (p *parser) skipSpace() {
	for {
		switch r := p.peek(); {
		case r == ';':
			for r = p.next(); r != '\n' && r != scanner.EOF; r = p.next() {
			}
		case r != scanner.EOF && unicode.IsSpace(r):
			p.next()
		default:
			return
		}
	}
}

func (p *parser) errorAt(pos scanner.Position, msg string) *Error {
	return &Error{
		Kind:      SyntaxError,
		Pos:       pos,
		Msg:       msg,
		Remainder: p.src[pos.Offset:],
	}
}

func (p *parser) name() string {
	start := p.off
	for isNameRune(p.peek()) {
		p.next()
	}
	return p.src[start:p.off]
}

func (p *parser) digits() string {
	start := p.off
	for r := p.peek(); r >= '0' && r <= '9'; r = p.peek() {
		p.next()
	}
	return p.src[start:p.off]
}

// operand parses a single operand. It returns nil, nil if the next token is
// not an operand.
func (p *parser) operand() (Token, error) {
	pos := p.pos
	switch p.peek() {
	case '$':
		p.next()
		s := p.digits()
		if s == "" {
			return nil, p.errorAt(pos, "expected register number")
		}
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return nil, p.errorAt(pos, "register number out of range: $"+s)
		}
		return Register{uint8(n)}, nil
	case '#':
		p.next()
		start := p.off
		if p.peek() == '-' {
			p.next()
		}
		if p.digits() == "" {
			return nil, p.errorAt(pos, "expected integer")
		}
		s := p.src[start:p.off]
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, p.errorAt(pos, "integer out of range: #"+s)
		}
		return Immediate{int32(n)}, nil
	case '@':
		p.next()
		if !isNameStart(p.peek()) {
			return nil, p.errorAt(pos, "expected label name")
		}
		return LabelRef{p.name()}, nil
	case '\'':
		p.next()
		start := p.off
		for r := p.next(); r != '\''; r = p.next() {
			if r == scanner.EOF {
				return nil, p.errorAt(pos, "unterminated string literal")
			}
		}
		return String{p.src[start : p.off-1]}, nil
	}
	return nil, nil
}

// record parses a single instruction or directive with an optional label
// declaration.
func (p *parser) record() (*Instruction, error) {
	ins := &Instruction{Pos: p.pos}
	if isNameStart(p.peek()) {
		save := *p
		n := p.name()
		if p.peek() == ':' {
			p.next()
			ins.Label = &LabelDecl{n}
			p.skipSpace()
		} else {
			*p = save
		}
	}
	if err := p.head(ins); err != nil {
		return nil, err
	}
	return p.operands(ins)
}

// head parses the opcode or directive of a record.
func (p *parser) head(ins *Instruction) error {
	pos := p.pos
	switch r := p.peek(); {
	case r == '.':
		p.next()
		if !isNameStart(p.peek()) {
			return p.errorAt(pos, "expected directive name")
		}
		ins.Head = Directive{p.name()}
	case isNameStart(r):
		n := p.name()
		op, ok := vm.LookupOpcode(n)
		if !ok {
			return p.errorAt(pos, "unknown mnemonic "+strconv.Quote(n))
		}
		ins.Head = Op{op}
	case ins.Label != nil:
		return p.errorAt(pos, "expected opcode or directive after label "+ins.Label.Name)
	default:
		return p.errorAt(pos, "expected opcode, directive or label")
	}
	return nil
}

func (p *parser) operands(ins *Instruction) (*Instruction, error) {
	for len(ins.Operands) < maxOperands {
		p.skipSpace()
		o, err := p.operand()
		if err != nil {
			return nil, err
		}
		if o == nil {
			break
		}
		ins.Operands = append(ins.Operands, o)
	}
	return ins, nil
}

func (p *parser) parse() (*Program, error) {
	for p.skipSpace(); p.peek() != scanner.EOF; p.skipSpace() {
		ins, err := p.record()
		if err != nil {
			return nil, err
		}
		p.prog.Instructions = append(p.prog.Instructions, *ins)
	}
	return p.prog, nil
}

// Parse parses assembly source into a Program. The name parameter is used
// only in error positions.
//
// On failure, the returned error is an *Error of kind SyntaxError whose
// Remainder field holds the unconsumed input, starting at the offending token.
func Parse(name, src string) (*Program, error) {
	return newParser(name, src).parse()
}
