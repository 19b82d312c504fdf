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
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/iridium/asm"
	"github.com/db47h/iridium/internal/repl"
	"github.com/db47h/iridium/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug   bool
	dataLen int
	logger  = zap.NewNop()
)

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
		cfg.DisableCaller = true
	}
	return cfg.Build()
}

// loadImage loads an image file, or assembles it if it does not start with the
// image magic.
func loadImage(fileName string) (*vm.Image, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "load failed")
	}
	if vm.HasMagic(b) {
		return vm.DecodeImage(b, dataLen)
	}
	return asm.New(asm.Logger(logger)).Assemble(fileName, bytes.NewReader(b))
}

func newAsmCmd() *cobra.Command {
	var outFileName string
	cmd := &cobra.Command{
		Use:   "asm sourceFile",
		Short: "Assemble a source file into a binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open failed")
			}
			defer f.Close()
			img, err := asm.New(asm.Logger(logger)).Assemble(args[0], f)
			if err != nil {
				return err
			}
			if outFileName == "" {
				outFileName = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pie"
			}
			if err = vm.Save(outFileName, img); err != nil {
				return err
			}
			logger.Info("image saved",
				zap.String("file", outFileName),
				zap.Int("data", len(img.Data)),
				zap.Int("code", len(img.Code)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFileName, "output", "o", "", "`filename` of the output image (default: source file name with a .pie extension)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		maxSteps int
		dump     bool
	)
	cmd := &cobra.Command{
		Use:   "run file",
		Short: "Run an image or a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			i, err := vm.New(vm.Logger(logger))
			if err != nil {
				return err
			}
			i.LoadImage(img)
			defer func() {
				if dump {
					if e := dumpVM(i, cmd.OutOrStdout()); err == nil {
						err = e
					}
				}
			}()
			s := vm.Continue
			if maxSteps > 0 {
				for n := 0; n < maxSteps && s == vm.Continue; n++ {
					s = i.Step()
				}
			} else {
				s = i.Run()
			}
			switch s {
			case vm.Continue:
				return errors.Errorf("step budget of %d instructions exhausted at pc=%d", maxSteps, i.PC)
			case vm.Faulted:
				return errors.Wrap(i.Err(), "fault")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&dataLen, "data", 0, "size of the read-only data segment of binary images")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum number of instructions to execute (0: unlimited)")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump registers and heap upon exit")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm file",
		Short: "Disassemble an image or a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			return disassemble(img, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&dataLen, "data", 0, "size of the read-only data segment of binary images")
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startREPL()
		},
	}
}

func startREPL() error {
	i, err := vm.New(vm.Logger(logger))
	if err != nil {
		return err
	}
	in, out, tearDown, err := setupIO()
	if err != nil {
		return err
	}
	if tearDown != nil {
		defer tearDown()
	}
	out.Write([]byte("Welcome to Iridium! Type .help for a list of commands.\n"))
	return repl.New(i, repl.Logger(logger)).Run(in, out)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "iridium",
		Short:         "Iridium assembler and virtual machine",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			logger, err = newLogger(debug)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return startREPL()
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug diagnostics")
	root.AddCommand(newAsmCmd(), newRunCmd(), newDisasmCmd(), newReplCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
