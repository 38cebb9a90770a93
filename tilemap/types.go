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

// Version is the VERSION item payload. A Map requires a VERSION item with
// id 0 whose Version == MapVersion; only the first such item is checked.
type Version struct {
	Version int32
}

// Info is the INFO item payload. Author, MapVersion, Credits, and License
// are indices into the data region, each addressing a scrambled-packed
// name string (see PackName/UnpackName); -1 means absent.
type Info struct {
	Version    int32
	Author     int32
	MapVersion int32
	Credits    int32
	License    int32
}

// Image is an IMAGE item payload. MustBe1 is only meaningful when
// Version >= 2; on earlier versions it is zero and should be ignored.
type Image struct {
	Version  int32
	Width    int32
	Height   int32
	External int32
	NameBlob int32
	DataBlob int32
	MustBe1  int32
}

// Envelope is an ENVELOPE item payload. Synchronized is only meaningful
// when Version >= 2.
type Envelope struct {
	Version      int32
	Channels     int32
	StartPoint   int32
	NumPoints    int32
	Name         [8]int32
	Synchronized int32
}

// EnvPoint is a single entry of an ENVPOINTS item's array. The bezier
// tangent fields are only meaningful when the owning envelope's
// Version >= 3; on earlier versions they are zero.
type EnvPoint struct {
	Time         int32
	Curve        int32
	Values       [4]int32
	InTangentDX  [4]int32
	InTangentDY  [4]int32
	OutTangentDX [4]int32
	OutTangentDY [4]int32
}

// Group is a GROUP item payload. The clip fields and Name are only
// meaningful when Version >= 3.
type Group struct {
	Version     int32
	OffsetX     int32
	OffsetY     int32
	ParallaxX   int32
	ParallaxY   int32
	StartLayer  int32
	NumLayers   int32
	UseClipping int32
	ClipX       int32
	ClipY       int32
	ClipW       int32
	ClipH       int32
	Name        [3]int32
}

// Layer is the common LAYER item header every layer payload starts with.
// Type selects which type-specific tail follows it in the same payload:
// LayerTypeTiles decodes as LayerTilemap, LayerTypeQuads as LayerQuads.
type Layer struct {
	Version int32
	Type    int32
	Flags   int32
}

// Color is an RGBA color with 0-255 channel range stored as 4-byte ints.
type Color struct {
	R, G, B, A int32
}

// LayerTilemap is a tile layer's payload tail, following its common Layer
// header. Data indexes the data blob holding the layer's tiles: on disk
// the blob is RLE-encoded when Version > 3; Open expands it, so after a
// Map is opened it holds Width*Height raw Tiles (see Map.Tiles).
type LayerTilemap struct {
	Version        int32
	Width          int32
	Height         int32
	Flags          int32
	Color          Color
	ColorEnv       int32
	ColorEnvOffset int32
	Image          int32
	Data           int32
	Name           [3]int32
}

// Point is a fixed-point 2D coordinate used by quads, stored as a 4-byte
// int with 10 fractional bits.
type Point struct {
	X, Y int32
}

// Quad is a single entry of a QUADS layer's data blob: a textured
// quadrilateral with per-corner color and an optional position/color
// envelope animation.
type Quad struct {
	Points         [5]Point // 4 corners plus the pivot, Points[4]
	Colors         [4]Color
	TexCoords      [4]Point
	PosEnv         int32
	PosEnvOffset   int32
	ColorEnv       int32
	ColorEnvOffset int32
}

// LayerQuads is a quads layer's payload tail, following its common Layer
// header. Data indexes the data blob holding NumQuads Quad records.
type LayerQuads struct {
	Version  int32
	NumQuads int32
	Data     int32
	Image    int32
	Name     [3]int32
}

// Tile is a single cell of an expanded tile layer, or a run record before
// expansion (Skip nonzero means "repeat the preceding fields Skip+1
// times").
type Tile struct {
	Index    uint8
	Flags    uint8
	Skip     uint8
	Reserved uint8
}
