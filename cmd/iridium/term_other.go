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

//go:build !(linux || darwin || freebsd)

package main

import (
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// setRawIO attempts to set stdin to raw IO and returns a function to restore
// IO settings as they were before.
func setRawIO(fd uintptr) (func(), error) {
	st, err := term.MakeRaw(int(fd))
	if err != nil {
		return nil, errors.Wrap(err, "raw IO not supported")
	}
	return func() {
		term.Restore(int(fd), st)
	}, nil
}
