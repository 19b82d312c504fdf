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

	"github.com/db47h/iridium/vm"
)

// Token is a parsed source element. The set of token types is closed: Op,
// Register, Immediate, LabelDecl, LabelRef, Directive and String.
type Token interface {
	token()
	String() string
}

// Op is an opcode mnemonic.
type Op struct {
	Code vm.Opcode
}

// Register is a register operand: $N.
type Register struct {
	Index uint8
}

// Immediate is an integer operand: #N. Only the low 16 bits are encoded.
type Immediate struct {
	Value int32
}

// LabelDecl is a label declaration: name:
type LabelDecl struct {
	Name string
}

// LabelRef is a label usage: @name
type LabelRef struct {
	Name string
}

// Directive is an assembler directive: .name
type Directive struct {
	Name string
}

// String is a string literal: 'text'
type String struct {
	Text string
}

func (Op) token()        {}
func (Register) token()  {}
func (Immediate) token() {}
func (LabelDecl) token() {}
func (LabelRef) token()  {}
func (Directive) token() {}
func (String) token()    {}

func (t Op) String() string        { return t.Code.String() }
func (t Register) String() string  { return "$" + strconv.Itoa(int(t.Index)) }
func (t Immediate) String() string { return "#" + strconv.Itoa(int(t.Value)) }
func (t LabelDecl) String() string { return t.Name + ":" }
func (t LabelRef) String() string  { return "@" + t.Name }
func (t Directive) String() string { return "." + t.Name }
func (t String) String() string    { return "'" + t.Text + "'" }

// Instruction is a single parsed record: an optional label declaration, an
// opcode or a directive, and up to three operands.
type Instruction struct {
	Pos      scanner.Position
	Label    *LabelDecl
	Head     Token // Op or Directive
	Operands []Token
}

// IsOpcode returns true if the instruction is headed by an opcode.
func (i *Instruction) IsOpcode() bool {
	_, ok := i.Head.(Op)
	return ok
}

// IsDirective returns true if the instruction is headed by a directive.
func (i *Instruction) IsDirective() bool {
	_, ok := i.Head.(Directive)
	return ok
}

// LabelName returns the name of the declared label, if any.
func (i *Instruction) LabelName() (string, bool) {
	if i.Label == nil {
		return "", false
	}
	return i.Label.Name, true
}

func (i *Instruction) String() string {
	var b []byte
	if i.Label != nil {
		b = append(b, i.Label.String()...)
		b = append(b, ' ')
	}
	b = append(b, i.Head.String()...)
	for _, o := range i.Operands {
		b = append(b, ' ')
		b = append(b, o.String()...)
	}
	return string(b)
}

// Program is a sequence of instructions in source order.
type Program struct {
	Instructions []Instruction
}
