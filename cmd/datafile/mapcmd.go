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

	"github.com/pixelgrid/datafile/tilemap"
)

func newMapCommand() *cli.Command {
	return &cli.Command{
		Name:      "map",
		Usage:     "open a DATAFILE as a map and print its group/layer tree",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("%w: missing PATH argument", ErrFlagParse)
			}
			return (&mapList{path: path}).Run(c)
		},
	}
}

type mapList struct {
	path string
}

func (m *mapList) Run(c *cli.Context) error {
	mp, err := tilemap.Open(m.path)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", ErrDatafileCLI, m.path, err)
	}
	defer mp.Close()

	groups, err := mp.Groups()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatafileCLI, err)
	}

	tbl := table.New("group", "layer", "type", "size")
	for gi, g := range groups {
		layers, err := mp.LayersOf(g)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDatafileCLI, err)
		}
		for li, l := range layers {
			size := ""
			if l.Type == tilemap.LayerTypeTiles {
				if lt, err := mp.Tilemap(g, int32(li)); err == nil {
					size = fmt.Sprintf("%dx%d", lt.Width, lt.Height)
				}
			} else if l.Type == tilemap.LayerTypeQuads {
				if lq, err := mp.Quads(g, int32(li)); err == nil {
					size = fmt.Sprintf("%d quads", lq.NumQuads)
				}
			}
			tbl.AddRow(gi, li, layerTypeName(l.Type), size)
		}
	}
	tbl.Print()

	return nil
}

func layerTypeName(t int32) string {
	switch t {
	case tilemap.LayerTypeGame:
		return "game"
	case tilemap.LayerTypeTiles:
		return "tiles"
	case tilemap.LayerTypeQuads:
		return "quads"
	default:
		return "invalid"
	}
}
