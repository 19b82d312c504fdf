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

package vm

import (
	"go.uber.org/zap"
)

// Signal is the outcome of a fetch-decode-execute cycle.
type Signal int

// Run loop signals.
const (
	Continue Signal = iota // the instruction was executed, keep going
	Halted                 // normal termination: hlt or end of code
	Faulted                // execution error, see Instance.Err
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// Instance represents an Iridium VM instance.
type Instance struct {
	PC        int // Program Counter, a byte offset into the code buffer
	regs      [RegisterCount]int32
	remainder uint32
	equal     bool
	heap      []byte
	code      []byte
	ro        []byte
	insCount  int64
	err       error
	logger    *zap.Logger
}

// Option interface
type Option func(*Instance) error

// Logger sets the logger used to trace execution. The default is zap.L().
func Logger(l *zap.Logger) Option {
	return func(i *Instance) error {
		i.logger = l
		return nil
	}
}

// HeapSize sets the initial heap size. The heap is zero filled.
func HeapSize(size int) Option {
	return func(i *Instance) error {
		if size < 0 {
			return ErrNegativeAllocation
		}
		i.heap = make([]byte, size)
		return nil
	}
}

// Code appends the given code bytes to the code buffer.
func Code(code []byte) Option {
	return func(i *Instance) error {
		i.Load(code)
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Iridium Virtual Machine instance with an empty code buffer.
// Use Load or LoadImage to install a program, or the Code option.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		logger: zap.L(),
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	i.logger = i.logger.Named("vm")
	return i, nil
}

// Load appends the given bytes to the code buffer.
func (i *Instance) Load(code []byte) {
	i.code = append(i.code, code...)
}

// LoadImage installs the image's read-only data segment and appends its code
// segment to the code buffer.
func (i *Instance) LoadImage(img *Image) {
	i.ro = append(i.ro[:0], img.Data...)
	i.Load(img.Code)
}

// Reset clears registers, flags, heap, fault state and sets the PC back to 0.
// The code buffer and read-only data are left untouched.
func (i *Instance) Reset() {
	i.PC = 0
	i.regs = [RegisterCount]int32{}
	i.remainder = 0
	i.equal = false
	i.heap = i.heap[:0]
	i.insCount = 0
	i.err = nil
}

// Clear resets the instance and empties the code buffer and read-only data.
func (i *Instance) Clear() {
	i.Reset()
	i.code = i.code[:0]
	i.ro = i.ro[:0]
}

// Register returns the value of register n. It panics if n is out of range.
func (i *Instance) Register(n int) int32 {
	return i.regs[n]
}

// Registers returns a copy of all registers.
func (i *Instance) Registers() [RegisterCount]int32 {
	return i.regs
}

// Remainder returns the remainder of the last division.
func (i *Instance) Remainder() uint32 {
	return i.remainder
}

// Equal returns the state of the equality flag.
func (i *Instance) Equal() bool {
	return i.equal
}

// Heap returns the heap. Changes to the returned slice will be reflected in
// the instance's heap.
func (i *Instance) Heap() []byte {
	return i.heap
}

// ReadOnly returns the read-only data segment of the loaded image.
func (i *Instance) ReadOnly() []byte {
	return i.ro
}

// Program returns the code buffer.
func (i *Instance) Program() []byte {
	return i.code
}

// ProgramLen returns the size in bytes of the code buffer.
func (i *Instance) ProgramLen() int {
	return len(i.code)
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Err returns the cause of the last fault, or nil if the VM did not fault.
func (i *Instance) Err() error {
	return i.err
}
