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

package tilemap

import (
	"fmt"
	"math"

	"github.com/pixelgrid/datafile"
)

// Map is a DATAFILE reinterpreted under the tile map schema. Opening a
// Map validates the VERSION item and expands every RLE-encoded tile
// layer's data blob in place, so Data(j) on a tile layer's blob index
// always returns a flat Width*Height array of Tiles thereafter.
type Map struct {
	r *datafile.Reader
}

// Open opens filename as a Map: it parses it as a DATAFILE, validates
// the VERSION item, and expands every tile layer's blob. On any failure
// the underlying file is closed and a nil Map is returned.
func Open(filename string, opts ...datafile.ReaderOption) (*Map, error) {
	r, err := datafile.Open(filename, opts...)
	if err != nil {
		return nil, err
	}
	m := &Map{r: r}

	if err := m.checkVersion(); err != nil {
		r.Close() //nolint:errcheck // best effort on the failure path
		return nil, err
	}
	if err := m.expandTileLayers(); err != nil {
		r.Close() //nolint:errcheck // best effort on the failure path
		return nil, err
	}
	return m, nil
}

// Close closes the underlying DATAFILE.
func (m *Map) Close() error {
	return m.r.Close()
}

// Reader returns the underlying DATAFILE reader, for callers that need
// access below the schema layer (raw item/data access, CRC32/SHA256).
func (m *Map) Reader() *datafile.Reader {
	return m.r
}

func (m *Map) checkVersion() error {
	payload := m.r.FindItem(ItemVersion, 0)
	if payload == nil {
		return fmt.Errorf("%w: missing version item", datafile.ErrFormat)
	}
	v, err := decodeVersion(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", datafile.ErrFormat, err)
	}
	if v.Version != MapVersion {
		return fmt.Errorf("%w: unsupported map version %d", datafile.ErrFormat, v.Version)
	}
	return nil
}

// Groups returns the decoded GROUP items, in item order.
func (m *Map) Groups() ([]Group, error) {
	start, num := m.r.Type(ItemGroup)
	groups := make([]Group, num)
	for i := 0; i < num; i++ {
		payload := m.r.Item(start+i, nil, nil)
		g, err := decodeGroup(payload)
		if err != nil {
			return nil, fmt.Errorf("tilemap: group %d: %w", i, err)
		}
		groups[i] = g
	}
	return groups, nil
}

// layerItemIndex resolves a group-relative layer number to an absolute
// item index: GROUP.StartLayer/NumLayers address the ordered sequence of
// LAYER-type items, not raw item indices.
func (m *Map) layerItemIndex(relative int32) int {
	layerStart, _ := m.r.Type(ItemLayer)
	return layerStart + int(relative)
}

// LayersOf decodes the common Layer header for every layer belonging to
// group g, in the group's layer order.
func (m *Map) LayersOf(g Group) ([]Layer, error) {
	layers := make([]Layer, g.NumLayers)
	for i := int32(0); i < g.NumLayers; i++ {
		idx := m.layerItemIndex(g.StartLayer + i)
		payload := m.r.Item(idx, nil, nil)
		l, err := decodeLayer(payload)
		if err != nil {
			return nil, fmt.Errorf("tilemap: layer %d: %w", idx, err)
		}
		layers[i] = l
	}
	return layers, nil
}

// Tilemap decodes the tile-layer tail of the LAYER item at group g's
// relative layer index i, reading that item's payload itself.
func (m *Map) Tilemap(g Group, i int32) (LayerTilemap, error) {
	idx := m.layerItemIndex(g.StartLayer + i)
	payload := m.r.Item(idx, nil, nil)
	return decodeLayerTilemap(payload)
}

// Quads decodes the quads-layer tail of the LAYER item at group g's
// relative layer index i, reading that item's payload itself.
func (m *Map) Quads(g Group, i int32) (LayerQuads, error) {
	idx := m.layerItemIndex(g.StartLayer + i)
	payload := m.r.Item(idx, nil, nil)
	return decodeLayerQuads(payload)
}

// Tiles returns the expanded, flat Width*Height tile array for a tile
// layer whose data blob index is dataIndex. Call only after Open (or
// expandTileLayers) has run; the blob is no longer RLE-encoded by then.
func (m *Map) Tiles(dataIndex int, width, height int32) ([]Tile, error) {
	raw, err := m.r.Data(dataIndex)
	if err != nil {
		return nil, err
	}
	want := int(width) * int(height)
	if len(raw) != want*4 {
		return nil, fmt.Errorf("%w: tile blob %d has %d bytes, want %d", datafile.ErrInvalidSize, dataIndex, len(raw), want*4)
	}
	tiles := make([]Tile, want)
	for i := range tiles {
		tiles[i] = decodeTileRecord(raw[i*4 : i*4+4])
	}
	return tiles, nil
}

func decodeTileRecord(b []byte) Tile {
	return Tile{Index: b[0], Flags: b[1], Skip: b[2], Reserved: b[3]}
}

// expandTileLayers walks every group's tile layers and, for each whose
// LayerTilemap.Version > 3, decodes its RLE-packed data blob into a flat
// Width*Height Tile array and replaces the blob in place.
func (m *Map) expandTileLayers() error {
	groups, err := m.Groups()
	if err != nil {
		return err
	}

	for _, g := range groups {
		for i := int32(0); i < g.NumLayers; i++ {
			idx := m.layerItemIndex(g.StartLayer + i)
			payload := m.r.Item(idx, nil, nil)
			hdr, err := decodeLayer(payload)
			if err != nil {
				return fmt.Errorf("tilemap: layer %d: %w", idx, err)
			}
			if hdr.Type != LayerTypeTiles {
				continue
			}

			lt, err := decodeLayerTilemap(payload)
			if err != nil {
				return fmt.Errorf("tilemap: tile layer %d: %w", idx, err)
			}
			if lt.Version <= 3 {
				continue
			}

			if err := m.expandTileLayer(int(lt.Data), lt.Width, lt.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandTileLayer decodes the RLE run records in the blob at dataIndex
// into a flat width*height Tile array and replaces the blob.
func (m *Map) expandTileLayer(dataIndex int, width, height int32) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative tile layer dimension", datafile.ErrInvalidSize)
	}
	w, h := int64(width), int64(height)
	total := w * h
	if total > math.MaxInt32 {
		return fmt.Errorf("%w: tile layer %dx%d overflows int32", datafile.ErrInvalidSize, width, height)
	}
	if total*4 > math.MaxInt32 {
		return fmt.Errorf("%w: tile layer %dx%d byte size overflows int32", datafile.ErrInvalidSize, width, height)
	}

	runs, err := m.r.Data(dataIndex)
	if err != nil {
		return fmt.Errorf("tilemap: loading tile layer blob %d: %w", dataIndex, err)
	}

	want := int(total)
	tiles := make([]Tile, 0, want)
	for off := 0; off+4 <= len(runs) && len(tiles) < want; off += 4 {
		t := decodeTileRecord(runs[off : off+4])
		count := int(t.Skip) + 1
		t.Skip = 0
		for k := 0; k < count && len(tiles) < want; k++ {
			tiles = append(tiles, t)
		}
	}
	for len(tiles) < want {
		tiles = append(tiles, Tile{})
	}

	expanded := make([]byte, want*4)
	for i, t := range tiles {
		expanded[i*4+0] = t.Index
		expanded[i*4+1] = t.Flags
		expanded[i*4+2] = t.Skip
		expanded[i*4+3] = t.Reserved
	}

	return m.r.Replace(dataIndex, expanded)
}
