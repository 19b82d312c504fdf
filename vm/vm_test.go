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

package vm_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/db47h/iridium/asm"
	"github.com/db47h/iridium/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type R map[int]int32

func setup(t *testing.T, code string, opts ...vm.Option) *vm.Instance {
	t.Helper()
	img, err := asm.New().Assemble(t.Name(), strings.NewReader(code))
	require.NoError(t, err)
	i, err := vm.New(opts...)
	require.NoError(t, err)
	i.LoadImage(img)
	return i
}

func disasm(i *vm.Instance) string {
	var b bytes.Buffer
	asm.DisassembleAll(i.Program(), 0, &b)
	return b.String()
}

var coreTests = [...]struct {
	name string
	code string
	regs R
}{
	{"load", "load $0 #100", R{0: 100}},
	{"load zero extends", "load $0 #-1", R{0: 65535}},
	{"add", "load $0 #2 load $1 #3 add $0 $1 $2", R{0: 2, 1: 3, 2: 5}},
	{"add in place", "load $0 #2 add $0 $0 $0 add $0 $0 $0", R{0: 8}},
	{"sub", "load $0 #2 load $1 #3 sub $0 $1 $2", R{2: -1}},
	{"mul", "load $0 #7 load $1 #6 mul $0 $1 $2", R{2: 42}},
	{"mul wraps", "load $0 #65535 mul $0 $0 $1", R{1: -131071}},
	{"add wraps", "load $0 #32768 mul $0 $0 $1 add $1 $1 $2", R{1: 1 << 30, 2: -1 << 31}},
	{"div", "load $0 #10 load $1 #3 div $0 $1 $2", R{2: 3}},
	{"inc", "inc $0 inc $0 inc $31", R{0: 2, 31: 1}},
	{"dec", "dec $0 load $1 #1 dec $1", R{0: -1, 1: 0}},
	{"hlt", "load $0 #1 hlt load $0 #2", R{0: 1}},
	{"jmp", "load $0 #12 jmp $0 load $1 #99 hlt", R{0: 12, 1: 0}},
	{"jmpf", "load $0 #4 jmpf $0 load $1 #99 load $2 #1", R{1: 0, 2: 1}},
	{"jmpe taken", "load $0 #20 load $1 #1 eq $1 $1 jmpe $0 load $2 #7 hlt", R{2: 0}},
	{"jmpe not taken", "load $0 #20 load $1 #1 eq $0 $1 jmpe $0 load $2 #7 hlt", R{2: 7}},
	{"countdown", "load $0 #5 load $1 #1 load $2 #0 load $3 #16 sub $0 $1 $0 inc $4 neq $0 $2 jmpe $3", R{0: 0, 4: 5}},
}

func TestCore(t *testing.T) {
	for _, test := range coreTests {
		t.Run(test.name, func(t *testing.T) {
			i := setup(t, test.code)
			s := i.Run()
			require.Equal(t, vm.Halted, s, "%v\n%s", i.Err(), disasm(i))
			for r, v := range test.regs {
				assert.Equal(t, v, i.Register(r), "register $%d\n%s", r, disasm(i))
			}
		})
	}
}

func TestDiv(t *testing.T) {
	i := setup(t, "load $0 #10 load $1 #3 div $0 $1 $2")
	assert.Equal(t, vm.Halted, i.Run())
	assert.Equal(t, int32(3), i.Register(2))
	assert.Equal(t, uint32(1), i.Remainder())
	assert.Equal(t, int32(10), i.Register(0))
	assert.Equal(t, int32(3), i.Register(1))

	// negative dividend: Go semantics, truncated towards zero
	i = setup(t, "load $0 #7 load $1 #0 sub $1 $0 $0 load $1 #2 div $0 $1 $2")
	assert.Equal(t, vm.Halted, i.Run())
	assert.Equal(t, int32(-3), i.Register(2))
	assert.Equal(t, uint32(0xFFFFFFFF), i.Remainder())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op   string
		a, b int
		want bool
	}{
		{"eq", 1, 1, true}, {"eq", 1, 2, false},
		{"neq", 1, 1, false}, {"neq", 1, 2, true},
		{"gt", 2, 1, true}, {"gt", 1, 1, false}, {"gt", 1, 2, false},
		{"lt", 1, 2, true}, {"lt", 1, 1, false}, {"lt", 2, 1, false},
		{"gtq", 2, 1, true}, {"gtq", 1, 1, true}, {"gtq", 1, 2, false},
		{"ltq", 1, 2, true}, {"ltq", 1, 1, true}, {"ltq", 2, 1, false},
		{"gte", 1, 1, true}, {"lte", 2, 1, false},
	}
	for _, test := range tests {
		code := fmt.Sprintf("load $0 #%d load $1 #%d %s $0 $1", test.a, test.b, test.op)
		i := setup(t, code)
		require.Equal(t, vm.Halted, i.Run())
		assert.Equal(t, test.want, i.Equal(), code)
	}
}

func TestJmpb(t *testing.T) {
	i := setup(t, "load $0 #8 jmpb $0")
	assert.Equal(t, vm.Continue, i.Step())
	assert.Equal(t, 4, i.PC)
	assert.Equal(t, vm.Continue, i.Step())
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, vm.Continue, i.Step())
	assert.Equal(t, 4, i.PC)
	assert.Equal(t, int64(3), i.InstructionCount())
}

func TestJumpPreservesRegisters(t *testing.T) {
	i := setup(t, "load $5 #42 load $0 #16 load $6 #7 jmp $0 hlt")
	assert.Equal(t, vm.Halted, i.Run())
	assert.NoError(t, i.Err())
	assert.Equal(t, int32(42), i.Register(5))
	assert.Equal(t, int32(7), i.Register(6))
	assert.Equal(t, int32(16), i.Register(0))
	assert.Equal(t, 20, i.PC)
}

func TestAloc(t *testing.T) {
	i := setup(t, "load $0 #16 aloc $0 aloc $0", vm.HeapSize(4))
	assert.Equal(t, vm.Halted, i.Run())
	assert.Equal(t, make([]byte, 36), i.Heap())
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name string
		code string
		pc   int
		err  error
	}{
		{"division by zero", "load $0 #1 div $0 $1 $2", 4, vm.ErrDivisionByZero},
		{"jump out of range", "load $0 #200 jmp $0", 4, vm.ErrJumpOutOfRange},
		{"jump to end", "load $0 #8 jmp $0", 4, vm.ErrJumpOutOfRange},
		{"jmpf out of range", "load $0 #4 jmpf $0", 4, vm.ErrJumpOutOfRange},
		{"jmpb below zero", "load $0 #100 jmpb $0", 4, vm.ErrJumpOutOfRange},
		{"negative aloc", "dec $0 aloc $0", 4, vm.ErrNegativeAllocation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i := setup(t, test.code)
			assert.Equal(t, vm.Faulted, i.Run())
			assert.Equal(t, test.pc, i.PC)
			assert.Equal(t, test.err, errors.Cause(i.Err()))
			// faults are sticky
			assert.Equal(t, vm.Faulted, i.Step())
			assert.Equal(t, test.pc, i.PC)
		})
	}
}

func TestIllegalInstruction(t *testing.T) {
	i, err := vm.New(vm.Code([]byte{200, 0, 0, 0, byte(vm.OpInc), 0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, vm.Faulted, i.Run())
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, int64(0), i.InstructionCount())
	assert.Equal(t, int32(0), i.Register(0))
	assert.Equal(t, vm.ErrIllegalInstruction, errors.Cause(i.Err()))
	assert.Contains(t, i.Err().Error(), "pc=0")

	i.Reset()
	assert.NoError(t, i.Err())
	assert.Equal(t, vm.Faulted, i.Step())
}

func TestIllegalInstruction_shortBuffer(t *testing.T) {
	for _, td := range []struct {
		code []byte
		pc   int
	}{
		{[]byte{200}, 0},
		{[]byte{255, 0}, 0},
		{[]byte{byte(vm.OpInc), 0, 0, 0, 200}, 4},
	} {
		i, err := vm.New(vm.Code(td.code))
		require.NoError(t, err)
		assert.Equal(t, vm.Faulted, i.Run(), "%v", td.code)
		assert.Equal(t, td.pc, i.PC, "%v", td.code)
		assert.Equal(t, vm.ErrIllegalInstruction, errors.Cause(i.Err()), "%v", td.code)
	}
}

func TestInvalidRegister(t *testing.T) {
	for _, code := range [][]byte{
		{byte(vm.OpInc), 32, 0, 0},
		{byte(vm.OpLoad), 255, 0, 1},
		{byte(vm.OpAdd), 0, 1, 40},
		{byte(vm.OpEq), 0, 33, 0},
		{byte(vm.OpJmp), 99, 0, 0},
	} {
		i, err := vm.New(vm.Code(code))
		require.NoError(t, err)
		assert.Equal(t, vm.Faulted, i.Step(), "%v", code)
		assert.Equal(t, vm.ErrInvalidRegister, errors.Cause(i.Err()), "%v", code)
	}
}

func TestExhaustion(t *testing.T) {
	i, err := vm.New()
	require.NoError(t, err)
	assert.Equal(t, vm.Halted, i.Step())

	i.Load([]byte{byte(vm.OpLoad), 0, 0})
	assert.Equal(t, vm.Halted, i.Step())
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, 3, i.ProgramLen())

	i.Load([]byte{5})
	assert.Equal(t, vm.Continue, i.Step())
	assert.Equal(t, int32(5), i.Register(0))
	assert.Equal(t, 4, i.PC)
	assert.Equal(t, vm.Halted, i.Run())
}

func TestReset(t *testing.T) {
	i := setup(t, "load $0 #3 aloc $0 load $1 #2 eq $1 $1 div $0 $1 $2")
	require.Equal(t, vm.Halted, i.Run())
	require.True(t, i.Equal())
	i.Reset()
	assert.Equal(t, 0, i.PC)
	assert.Equal(t, [vm.RegisterCount]int32{}, i.Registers())
	assert.False(t, i.Equal())
	assert.Zero(t, i.Remainder())
	assert.Empty(t, i.Heap())
	assert.Zero(t, i.InstructionCount())
	assert.Equal(t, 20, i.ProgramLen())

	// same result after a second run
	require.Equal(t, vm.Halted, i.Run())
	assert.Equal(t, int32(1), i.Register(2))
	assert.Equal(t, uint32(1), i.Remainder())
}

func TestClear(t *testing.T) {
	i := setup(t, "load $0 #3 aloc $0")
	i.LoadImage(&vm.Image{Data: []byte("hi\x00")})
	require.Equal(t, vm.Halted, i.Run())
	i.Clear()
	assert.Zero(t, i.ProgramLen())
	assert.Empty(t, i.ReadOnly())
	assert.Empty(t, i.Heap())
	assert.Zero(t, i.Register(0))
	assert.Equal(t, vm.Halted, i.Step())

	i.Load([]byte{byte(vm.OpInc), 1, 0, 0})
	assert.Equal(t, vm.Continue, i.Step())
	assert.Equal(t, int32(1), i.Register(1))
}

func TestHeapSize(t *testing.T) {
	_, err := vm.New(vm.HeapSize(-1))
	assert.Equal(t, vm.ErrNegativeAllocation, err)
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "continue", vm.Continue.String())
	assert.Equal(t, "halted", vm.Halted.String())
	assert.Equal(t, "faulted", vm.Faulted.String())
}
