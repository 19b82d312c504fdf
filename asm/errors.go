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
	"strings"
	"text/scanner"
)

// ErrorKind classifies assembly errors.
type ErrorKind int

// Assembly error kinds.
const (
	SyntaxError ErrorKind = iota
	UnknownDirective
	NoSegmentDeclaration
	DuplicateSymbol
	StringConstantWithoutLabel
	UnresolvedSymbol
	DataSegmentOverflow
	UnknownSection
	SymbolOffsetOverflow
	InvalidOperand
	InvalidRegister
)

var errorKinds = [...]string{
	SyntaxError:                "syntax error",
	UnknownDirective:           "unknown directive",
	NoSegmentDeclaration:       "no segment declaration",
	DuplicateSymbol:            "duplicate symbol",
	StringConstantWithoutLabel: "string constant without label",
	UnresolvedSymbol:           "unresolved symbol",
	DataSegmentOverflow:        "data segment overflow",
	UnknownSection:             "unknown section",
	SymbolOffsetOverflow:       "symbol offset overflow",
	InvalidOperand:             "invalid operand",
	InvalidRegister:            "invalid register",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKinds) {
		return "unknown error"
	}
	return errorKinds[k]
}

// Error is an assembly error or warning.
type Error struct {
	Kind ErrorKind
	Pos  scanner.Position
	Msg  string
	// Remainder is the unconsumed input for syntax errors.
	Remainder string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// ErrAsm is the error type returned by Assemble. It holds every error
// collected during the failing pass, in source order.
type ErrAsm []*Error

func (e ErrAsm) Error() string {
	s := make([]string, len(e))
	for i, err := range e {
		s[i] = err.Error()
	}
	return strings.Join(s, "\n")
}

// Count returns the number of errors of the given kind.
func (e ErrAsm) Count(kind ErrorKind) int {
	n := 0
	for _, err := range e {
		if err.Kind == kind {
			n++
		}
	}
	return n
}
