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

package main

import (
	"io"
	"os"

	"github.com/db47h/iridium/internal/repl"
	"golang.org/x/term"
)

// setupIO returns the REPL line reader and output writer. If stdin is a
// terminal, it is switched to raw mode and wrapped in a line editor, and
// tearDown restores the terminal state.
func setupIO() (in repl.LineReader, out io.Writer, tearDown func(), err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return repl.NewLineReader(os.Stdin), os.Stdout, nil, nil
	}
	tearDown, err = setRawIO(os.Stdin.Fd())
	if err != nil {
		// fallback to cooked mode
		return repl.NewLineReader(os.Stdin), os.Stdout, nil, nil
	}
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}, repl.Prompt)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		t.SetSize(w, h)
	}
	return t, t, tearDown, nil
}
