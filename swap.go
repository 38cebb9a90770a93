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

package datafile

import (
	"encoding/binary"
	"math/bits"
)

// nativeIsBigEndian reports whether the host is big-endian. DATAFILE is
// little-endian canonical; swapEndianIfBig is a no-op everywhere except on
// a big-endian host, where the header and the swap-region prefix of the
// metadata must be byte-reversed on read and on write.
var nativeIsBigEndian = func() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 0
}()

// swapEndian reverses the bytes of each 4-byte element of buf in place.
// len(buf) must be a multiple of 4; a short trailing remainder is left
// untouched, since callers only ever invoke it with int-aligned lengths.
func swapEndian(buf []byte) {
	n := len(buf) - len(buf)%4
	for i := 0; i < n; i += 4 {
		v := binary.LittleEndian.Uint32(buf[i : i+4])
		binary.LittleEndian.PutUint32(buf[i:i+4], bits.ReverseBytes32(v))
	}
}

// swapEndianIfBig calls swapEndian only when running on a big-endian host.
func swapEndianIfBig(buf []byte) {
	if nativeIsBigEndian {
		swapEndian(buf)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
