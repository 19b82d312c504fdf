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

// Package vm implements the Iridium VM, a register based byte-code virtual
// machine.
//
// The machine has 32 signed 32 bits registers, an equality flag set by
// comparison instructions, a remainder register updated by division and a
// heap that can only grow. Code is a flat byte buffer of fixed size, 4 bytes
// instructions; jump targets are byte offsets into this buffer.
//
// Programs are usually produced by the asm package as an Image, which can be
// installed with LoadImage. Raw code can also be appended with Load, e.g. from
// an interactive front end.
//
// Execution is driven by the caller: Step runs a single instruction and Run
// loops until the machine halts or faults. There is no internal time or
// instruction budget. Execution errors never panic nor exit; they stop the
// machine with a Faulted signal and the cause is available from Err.
package vm
