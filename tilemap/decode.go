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
	"encoding/binary"
	"fmt"
)

// intsAt decodes n consecutive 4-byte ints from buf starting at the i-th
// int position. Item payloads returned by datafile.Reader are already
// normalized to host-native byte order (the swap, if any, already
// happened on load), so these are read with binary.NativeEndian rather
// than an explicit little-endian decode.
func intsAt(buf []byte, i, n int) ([]int32, bool) {
	need := (i + n) * 4
	if need > len(buf) {
		return nil, false
	}
	out := make([]int32, n)
	for k := 0; k < n; k++ {
		out[k] = int32(binary.NativeEndian.Uint32(buf[(i+k)*4:]))
	}
	return out, true
}

func int32At(buf []byte, i int) (int32, bool) {
	v, ok := intsAt(buf, i, 1)
	if !ok {
		return 0, false
	}
	return v[0], true
}

var errShortPayload = fmt.Errorf("tilemap: item payload too short")

func decodeVersion(payload []byte) (Version, error) {
	v, ok := int32At(payload, 0)
	if !ok {
		return Version{}, errShortPayload
	}
	return Version{Version: v}, nil
}

func decodeInfo(payload []byte) (Info, error) {
	ints, ok := intsAt(payload, 0, 5)
	if !ok {
		return Info{}, errShortPayload
	}
	return Info{
		Version:    ints[0],
		Author:     ints[1],
		MapVersion: ints[2],
		Credits:    ints[3],
		License:    ints[4],
	}, nil
}

func decodeImage(payload []byte) (Image, error) {
	ints, ok := intsAt(payload, 0, 6)
	if !ok {
		return Image{}, errShortPayload
	}
	img := Image{
		Version:  ints[0],
		Width:    ints[1],
		Height:   ints[2],
		External: ints[3],
		NameBlob: ints[4],
		DataBlob: ints[5],
	}
	if img.Version >= 2 {
		if v, ok := int32At(payload, 6); ok {
			img.MustBe1 = v
		}
	}
	return img, nil
}

func decodeEnvelope(payload []byte) (Envelope, error) {
	ints, ok := intsAt(payload, 0, 12)
	if !ok {
		return Envelope{}, errShortPayload
	}
	env := Envelope{
		Version:    ints[0],
		Channels:   ints[1],
		StartPoint: ints[2],
		NumPoints:  ints[3],
	}
	copy(env.Name[:], ints[4:12])
	if env.Version >= 2 {
		if v, ok := int32At(payload, 12); ok {
			env.Synchronized = v
		}
	}
	return env, nil
}

// envPointSize is the on-disk size, in ints, of one EnvPoint record
// before the version-3 bezier tangent fields.
const envPointSize = 6

// envPointBezierSize is the on-disk size, in ints, of one EnvPoint record
// once the version-3 tangent fields are present.
const envPointBezierSize = 6 + 4 + 4 + 4 + 4

func decodeEnvPoints(payload []byte, bezier bool) ([]EnvPoint, error) {
	stride := envPointSize
	if bezier {
		stride = envPointBezierSize
	}
	if len(payload)%(stride*4) != 0 {
		return nil, fmt.Errorf("tilemap: envpoints payload %d not a multiple of %d", len(payload), stride*4)
	}
	n := len(payload) / (stride * 4)
	points := make([]EnvPoint, n)
	for i := range points {
		ints, ok := intsAt(payload, i*stride, stride)
		if !ok {
			return nil, errShortPayload
		}
		p := EnvPoint{Time: ints[0], Curve: ints[1]}
		copy(p.Values[:], ints[2:6])
		if bezier {
			copy(p.InTangentDX[:], ints[6:10])
			copy(p.InTangentDY[:], ints[10:14])
			copy(p.OutTangentDX[:], ints[14:18])
			copy(p.OutTangentDY[:], ints[18:22])
		}
		points[i] = p
	}
	return points, nil
}

func decodeGroup(payload []byte) (Group, error) {
	ints, ok := intsAt(payload, 0, 7)
	if !ok {
		return Group{}, errShortPayload
	}
	g := Group{
		Version:    ints[0],
		OffsetX:    ints[1],
		OffsetY:    ints[2],
		ParallaxX:  ints[3],
		ParallaxY:  ints[4],
		StartLayer: ints[5],
		NumLayers:  ints[6],
	}
	if g.Version >= 3 {
		if clip, ok := intsAt(payload, 7, 8); ok {
			g.UseClipping = clip[0]
			g.ClipX = clip[1]
			g.ClipY = clip[2]
			g.ClipW = clip[3]
			g.ClipH = clip[4]
			copy(g.Name[:], clip[5:8])
		}
	}
	return g, nil
}

func decodeLayer(payload []byte) (Layer, error) {
	ints, ok := intsAt(payload, 0, 3)
	if !ok {
		return Layer{}, errShortPayload
	}
	return Layer{Version: ints[0], Type: ints[1], Flags: ints[2]}, nil
}

// layerHeaderInts is the width, in ints, of the common Layer header that
// precedes every type-specific tail in a LAYER item's payload.
const layerHeaderInts = 3

func decodeLayerTilemap(payload []byte) (LayerTilemap, error) {
	ints, ok := intsAt(payload, layerHeaderInts, 12)
	if !ok {
		return LayerTilemap{}, errShortPayload
	}
	lt := LayerTilemap{
		Version: ints[0],
		Width:   ints[1],
		Height:  ints[2],
		Flags:   ints[3],
		Color: Color{
			R: ints[4], G: ints[5], B: ints[6], A: ints[7],
		},
		ColorEnv:       ints[8],
		ColorEnvOffset: ints[9],
		Image:          ints[10],
		Data:           ints[11],
	}
	if lt.Version >= 3 {
		if name, ok := intsAt(payload, layerHeaderInts+12, 3); ok {
			copy(lt.Name[:], name)
		}
	}
	return lt, nil
}

func decodeLayerQuads(payload []byte) (LayerQuads, error) {
	ints, ok := intsAt(payload, layerHeaderInts, 4)
	if !ok {
		return LayerQuads{}, errShortPayload
	}
	lq := LayerQuads{
		Version:  ints[0],
		NumQuads: ints[1],
		Data:     ints[2],
		Image:    ints[3],
	}
	if lq.Version >= 2 {
		if name, ok := intsAt(payload, layerHeaderInts+4, 3); ok {
			copy(lq.Name[:], name)
		}
	}
	return lq, nil
}

// quadSize is the on-disk size, in ints, of one Quad record: 5 points (2
// ints each) + 4 colors (4 ints each) + 4 texture coordinates (2 ints
// each) + 4 envelope/offset ints.
const quadSize = 5*2 + 4*4 + 4*2 + 4

func decodeQuads(payload []byte) ([]Quad, error) {
	if len(payload)%(quadSize*4) != 0 {
		return nil, fmt.Errorf("tilemap: quads payload %d not a multiple of %d", len(payload), quadSize*4)
	}
	n := len(payload) / (quadSize * 4)
	quads := make([]Quad, n)
	for i := range quads {
		ints, ok := intsAt(payload, i*quadSize, quadSize)
		if !ok {
			return nil, errShortPayload
		}
		var q Quad
		off := 0
		for p := 0; p < 5; p++ {
			q.Points[p] = Point{X: ints[off], Y: ints[off+1]}
			off += 2
		}
		for c := 0; c < 4; c++ {
			q.Colors[c] = Color{R: ints[off], G: ints[off+1], B: ints[off+2], A: ints[off+3]}
			off += 4
		}
		for t := 0; t < 4; t++ {
			q.TexCoords[t] = Point{X: ints[off], Y: ints[off+1]}
			off += 2
		}
		q.PosEnv = ints[off]
		q.PosEnvOffset = ints[off+1]
		q.ColorEnv = ints[off+2]
		q.ColorEnvOffset = ints[off+3]
		quads[i] = q
	}
	return quads, nil
}
