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

import "text/scanner"

// Section identifies the address space a symbol belongs to.
type Section int

// Sections.
const (
	NoSection Section = iota
	CodeSection
	DataSection
)

var sectionNames = map[string]Section{
	"code": CodeSection,
	"data": DataSection,
}

func (s Section) String() string {
	switch s {
	case CodeSection:
		return "code"
	case DataSection:
		return "data"
	}
	return "none"
}

// Symbol is a resolved label.
type Symbol struct {
	Name    string
	Section Section
	Offset  uint8
	Pos     scanner.Position
}

// SymbolTable maps label names to their offsets. It is only written to
// during the discovery pass and is read-only afterwards.
type SymbolTable struct {
	syms   map[string]int
	list   []Symbol
	frozen bool
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{syms: make(map[string]int)}
}

// declare adds s to the table. If a symbol with the same name already exists,
// it is returned and the table is left unchanged.
func (t *SymbolTable) declare(s Symbol) (prev Symbol, ok bool) {
	if t.frozen {
		panic("declare on frozen symbol table")
	}
	if i, dup := t.syms[s.Name]; dup {
		return t.list[i], false
	}
	t.syms[s.Name] = len(t.list)
	t.list = append(t.list, s)
	return s, true
}

func (t *SymbolTable) freeze() *SymbolTable {
	t.frozen = true
	return t
}

// Lookup returns the symbol with the given name.
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := t.syms[name]
	if !ok {
		return Symbol{}, false
	}
	return t.list[i], true
}

// Len returns the number of symbols in the table.
func (t *SymbolTable) Len() int {
	return len(t.list)
}

// Symbols returns a copy of all symbols in declaration order.
func (t *SymbolTable) Symbols() []Symbol {
	return append([]Symbol(nil), t.list...)
}
