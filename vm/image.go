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
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// HeaderLen is the size in bytes of the image header.
const HeaderLen = 64

// Magic is the 4 bytes prefix of every image header.
var Magic = [4]byte{0x2D, 0x32, 0x31, 0x2D}

// MaxDataSize is the maximum size of the read-only data segment. Data offsets
// are encoded as a single byte.
const MaxDataSize = 256

// ErrBadMagic is returned when decoding a byte slice that does not start with
// the image Magic.
var ErrBadMagic = errors.New("bad image header")

// Image is an assembled program: a read-only data segment and a code segment.
//
// The wire format is a HeaderLen bytes header (Magic followed by zero padding),
// the data segment, then the code segment as a sequence of InstructionSize
// bytes instructions.
type Image struct {
	Data []byte
	Code []byte
}

// Header returns a fresh image header.
func Header() []byte {
	h := make([]byte, HeaderLen)
	copy(h, Magic[:])
	return h
}

// HasMagic returns true if b starts with the image Magic.
func HasMagic(b []byte) bool {
	return len(b) >= len(Magic) && bytes.Equal(b[:len(Magic)], Magic[:])
}

// Bytes returns the encoded image.
func (img *Image) Bytes() []byte {
	b := make([]byte, 0, HeaderLen+len(img.Data)+len(img.Code))
	b = append(b, Header()...)
	b = append(b, img.Data...)
	return append(b, img.Code...)
}

// WriteTo writes the encoded image to w.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(img.Bytes())
	return int64(n), errors.Wrap(err, "write failed")
}

// DecodeImage splits an encoded image into its segments. The header does not
// record the size of the data segment, so it must be supplied by the caller
// as dataLen (0 if there is no read-only data).
func DecodeImage(b []byte, dataLen int) (*Image, error) {
	if len(b) < HeaderLen || !HasMagic(b) {
		return nil, ErrBadMagic
	}
	if dataLen < 0 || dataLen > MaxDataSize {
		return nil, errors.Errorf("invalid data segment size %d", dataLen)
	}
	body := b[HeaderLen:]
	if dataLen > len(body) {
		return nil, errors.Errorf("data segment size %d exceeds image body size %d", dataLen, len(body))
	}
	if (len(body)-dataLen)%InstructionSize != 0 {
		return nil, errors.Errorf("code segment size %d is not a multiple of %d", len(body)-dataLen, InstructionSize)
	}
	img := &Image{
		Data: append([]byte(nil), body[:dataLen]...),
		Code: append([]byte(nil), body[dataLen:]...),
	}
	return img, nil
}

// Load loads an image from file fileName. See DecodeImage for the meaning of
// dataLen.
func Load(fileName string, dataLen int) (*Image, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	b, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	img, err := DecodeImage(b, dataLen)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fileName)
	}
	return img, nil
}

// Save saves an image to file fileName. The file is removed if writing fails.
func Save(fileName string, img *Image) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if e := w.Flush(); err == nil && e != nil {
			err = errors.Wrap(e, "flush failed")
		}
		f.Close()
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	_, err = img.WriteTo(w)
	return err
}

// DecodeString returns the NUL terminated string starting at position start in
// the specified slice. The trailing NUL is not returned.
func DecodeString(mem []byte, start int) string {
	end := start
	for ; end < len(mem) && mem[end] != 0; end++ {
	}
	return string(mem[start:end])
}
