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

//go:build linux || darwin || freebsd

package main

import (
	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// setRawIO switches the terminal to raw IO and returns a function to restore
// IO settings as they were before. We do not use the higher level functions of
// the term package because it doesn't allow the use of existing file
// descriptors.
func setRawIO(fd uintptr) (func(), error) {
	var tios unix.Termios
	err := termios.Tcgetattr(fd, &tios)
	if err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}
	a := tios
	a.Iflag &^= unix.BRKINT | unix.ISTRIP | unix.IXON | unix.IXOFF | unix.ICRNL
	a.Iflag |= unix.IGNBRK | unix.IGNPAR
	a.Lflag &^= unix.ICANON | unix.ISIG | unix.IEXTEN | unix.ECHO
	a.Cc[unix.VMIN] = 1
	a.Cc[unix.VTIME] = 0
	err = termios.Tcsetattr(fd, termios.TCSANOW, &a)
	if err != nil {
		// well, try to restore as it was if it errors
		termios.Tcsetattr(fd, termios.TCSANOW, &tios)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}
	return func() {
		termios.Tcsetattr(fd, termios.TCSANOW, &tios)
	}, nil
}
