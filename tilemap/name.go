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

import "bytes"

// PackName encodes s into n int32s using the format's scrambled short-
// string packing: each int holds four bytes in big-endian order, each
// byte stored as raw+128. s is truncated to n*4 bytes; the low byte of
// the last packed int is then forced to literal zero (post-scramble, not
// the pre-scramble raw byte), guaranteeing a trailing NUL once unpacked.
func PackName(s string, n int) []int32 {
	raw := make([]byte, n*4)
	copy(raw, s)

	out := make([]int32, n)
	for i := 0; i < n; i++ {
		var word uint32
		for k := 0; k < 4; k++ {
			word = word<<8 | uint32(raw[i*4+k]+128)
		}
		out[i] = int32(word)
	}
	out[n-1] &^= 0xFF
	return out
}

// UnpackName reverses PackName: it decodes len(ints)*4 bytes, subtracting
// 128 from each, unconditionally zeroes the last decoded byte (mirroring
// the forced zero PackName writes, rather than trusting the packed bit
// pattern), and returns the string up to (not including) the first NUL
// byte.
func UnpackName(ints []int32) string {
	raw := make([]byte, len(ints)*4)
	for i, v := range ints {
		word := uint32(v)
		raw[i*4+0] = byte(word>>24) - 128
		raw[i*4+1] = byte(word>>16) - 128
		raw[i*4+2] = byte(word>>8) - 128
		raw[i*4+3] = byte(word) - 128
	}
	if len(raw) > 0 {
		raw[len(raw)-1] = 0
	}
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	return string(raw)
}
