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

// Package iio holds I/O helpers shared by the assembler and the command line
// tools.
package iio

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and tracks the first write error. Once an
// error occurred, every subsequent write is a no-op returning that error, so
// callers can check Err once after a sequence of writes.
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter returns w if it already is an *ErrWriter, or a new ErrWriter
// wrapping w.
func NewErrWriter(w io.Writer) *ErrWriter {
	if ew, ok := w.(*ErrWriter); ok {
		return ew
	}
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteString writes s.
func (w *ErrWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Printf formats according to a format specifier and writes the result.
func (w *ErrWriter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
