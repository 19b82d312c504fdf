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
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Execution faults. They are returned wrapped by Instance.Err; use
// errors.Cause to compare.
var (
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrJumpOutOfRange     = errors.New("jump target out of range")
	ErrInvalidRegister    = errors.New("invalid register")
	ErrNegativeAllocation = errors.New("negative heap allocation")
)

func (i *Instance) reg(b byte) (*int32, error) {
	if int(b) >= RegisterCount {
		return nil, errors.Wrapf(ErrInvalidRegister, "$%d", b)
	}
	return &i.regs[b], nil
}

func (i *Instance) regs2(a, b byte) (x, y *int32, err error) {
	if x, err = i.reg(a); err != nil {
		return nil, nil, err
	}
	if y, err = i.reg(b); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (i *Instance) regs3(a, b, c byte) (x, y, z *int32, err error) {
	if x, y, err = i.regs2(a, b); err != nil {
		return nil, nil, nil, err
	}
	if z, err = i.reg(c); err != nil {
		return nil, nil, nil, err
	}
	return x, y, z, nil
}

func (i *Instance) jump(target int) error {
	if target < 0 || target >= len(i.code) {
		return errors.Wrapf(ErrJumpOutOfRange, "target %d, program size %d", target, len(i.code))
	}
	i.PC = target
	return nil
}

// Step executes a single fetch-decode-execute cycle.
//
// Every instruction occupies InstructionSize bytes; operand bytes are always
// consumed, so that relative jumps are computed from the start of the next
// instruction. An unmapped opcode byte faults as soon as it is fetched.
// Otherwise, if fewer than InstructionSize bytes remain at PC, the code buffer
// is considered exhausted and Step returns Halted without changing PC.
//
// If an error occurs, Step returns Faulted, the PC will point to the
// instruction that triggered the error and Err will return the cause. A
// faulted instance keeps returning Faulted until Reset is called.
func (i *Instance) Step() Signal {
	if i.err != nil {
		return Faulted
	}
	pc := i.PC
	if pc < 0 || pc >= len(i.code) {
		return Halted
	}
	op := Decode(i.code[pc])
	if op == OpIllegal {
		return i.fault(pc, errors.Wrapf(ErrIllegalInstruction, "opcode %d", i.code[pc]))
	}
	if pc+InstructionSize > len(i.code) {
		return Halted
	}
	a, b, c := i.code[pc+1], i.code[pc+2], i.code[pc+3]
	i.PC += InstructionSize

	if ce := i.logger.Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(zap.Int("pc", pc), zap.Stringer("op", op), zap.Binary("args", []byte{a, b, c}))
	}

	var err error
	switch op {
	case OpHlt:
		i.insCount++
		return Halted
	case OpLoad:
		var r *int32
		if r, err = i.reg(a); err == nil {
			*r = int32(uint16(b)<<8 | uint16(c))
		}
	case OpAdd:
		var x, y, d *int32
		if x, y, d, err = i.regs3(a, b, c); err == nil {
			*d = *x + *y
		}
	case OpSub:
		var x, y, d *int32
		if x, y, d, err = i.regs3(a, b, c); err == nil {
			*d = *x - *y
		}
	case OpMul:
		var x, y, d *int32
		if x, y, d, err = i.regs3(a, b, c); err == nil {
			*d = *x * *y
		}
	case OpDiv:
		var x, y, d *int32
		if x, y, d, err = i.regs3(a, b, c); err == nil {
			if *y == 0 {
				err = ErrDivisionByZero
				break
			}
			lhs, rhs := *x, *y
			*d = lhs / rhs
			i.remainder = uint32(lhs % rhs)
		}
	case OpJmp:
		var r *int32
		if r, err = i.reg(a); err == nil {
			err = i.jump(int(*r))
		}
	case OpJmpf:
		var r *int32
		if r, err = i.reg(a); err == nil {
			err = i.jump(i.PC + int(*r))
		}
	case OpJmpb:
		var r *int32
		if r, err = i.reg(a); err == nil {
			err = i.jump(i.PC - int(*r))
		}
	case OpEq:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x == *y
		}
	case OpNeq:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x != *y
		}
	case OpGt:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x > *y
		}
	case OpLt:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x < *y
		}
	case OpGtq:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x >= *y
		}
	case OpLtq:
		var x, y *int32
		if x, y, err = i.regs2(a, b); err == nil {
			i.equal = *x <= *y
		}
	case OpJeq:
		var r *int32
		if r, err = i.reg(a); err == nil && i.equal {
			err = i.jump(int(*r))
		}
	case OpAloc:
		var r *int32
		if r, err = i.reg(a); err == nil {
			if *r < 0 {
				err = errors.Wrapf(ErrNegativeAllocation, "%d bytes", *r)
				break
			}
			i.heap = append(i.heap, make([]byte, *r)...)
		}
	case OpInc:
		var r *int32
		if r, err = i.reg(a); err == nil {
			*r++
		}
	case OpDec:
		var r *int32
		if r, err = i.reg(a); err == nil {
			*r--
		}
	}

	if err != nil {
		return i.fault(pc, err)
	}
	i.insCount++
	return Continue
}

// fault records err as the cause of a fault at pc and restores the PC.
func (i *Instance) fault(pc int, err error) Signal {
	i.PC = pc
	i.err = errors.Wrapf(err, "pc=%d", pc)
	i.logger.Debug("fault", zap.Int("pc", pc), zap.Error(err))
	return Faulted
}

// Run executes instructions until the VM halts, faults or the end of the code
// buffer is reached. It returns either Halted or Faulted.
//
// Run has no step budget: callers that need to bound execution should call
// Step in their own loop.
func (i *Instance) Run() Signal {
	for {
		if s := i.Step(); s != Continue {
			return s
		}
	}
}
