// Copyright 2026 The Pixelgrid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/pixelgrid/datafile"
)

func newInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print a DATAFILE's integrity hashes and item-type table",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("%w: missing PATH argument", ErrFlagParse)
			}
			return (&inspect{path: path}).Run(c)
		},
	}
}

type inspect struct {
	path string
}

func (i *inspect) Run(c *cli.Context) error {
	r, err := datafile.Open(i.path)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", ErrDatafileCLI, i.path, err)
	}
	defer r.Close()

	sha := r.SHA256()
	_ = must(fmt.Fprintf(c.App.Writer, "crc32:  %08x\n", r.CRC32()))
	_ = must(fmt.Fprintf(c.App.Writer, "sha256: %x\n", sha))
	_ = must(fmt.Fprintf(c.App.Writer, "items:  %d\n", r.NumItems()))
	_ = must(fmt.Fprintf(c.App.Writer, "blobs:  %d\n\n", r.NumData()))

	tbl := table.New("type", "start", "num")
	for typ := 0; typ < 0x10000; typ++ {
		start, num := r.Type(typ)
		if num == 0 {
			continue
		}
		tbl.AddRow(typ, start, num)
	}
	tbl.Print()

	return nil
}
