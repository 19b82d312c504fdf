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

// The iridium command line tool assembles, runs and disassembles programs for
// the virtual machine in package github.com/db47h/iridium/vm.
//
// Usage:
//
//	iridium [--debug] [command]
//
//	asm [-o filename] sourceFile
//		  assemble sourceFile into a binary image (default output: the source
//		  file name with a .pie extension)
//	run [--data N] [--max-steps N] [--dump] file
//		  run a binary image or a source file
//	disasm [--data N] file
//		  disassemble a binary image or a source file
//	repl
//		  start an interactive session (default when no command is given)
//
// --debug: enable debug diagnostics. Every executed instruction and assembler
// pass is logged.
//
// --data: binary image headers do not record the size of the read-only data
// segment, so it must be given for images that carry one. Files that do not
// start with the image magic number are assembled on the fly and need no
// such flag.
//
// --max-steps: stop after N instructions. Running out of steps is an error.
//
// --dump: dump registers, flags and heap to stdout upon exit.
//
// The exit code is 1 if assembly fails, the VM faults or the step budget is
// exhausted.
//
// In the REPL, lines are either assembly source without labels, or space
// separated hexadecimal bytes. The bytes are appended to the program and a
// single instruction is executed. Type .help for a list of commands.
package main
