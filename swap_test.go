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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSwapEndian(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "single element",
			in:   []byte{0x01, 0x02, 0x03, 0x04},
			want: []byte{0x04, 0x03, 0x02, 0x01},
		},
		{
			name: "two elements",
			in:   []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD},
			want: []byte{0x04, 0x03, 0x02, 0x01, 0xDD, 0xCC, 0xBB, 0xAA},
		},
		{
			name: "trailing short remainder untouched",
			in:   []byte{0x01, 0x02, 0x03, 0x04, 0xFF},
			want: []byte{0x04, 0x03, 0x02, 0x01, 0xFF},
		},
		{
			name: "empty",
			in:   []byte{},
			want: []byte{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := append([]byte(nil), tc.in...)
			swapEndian(buf)
			if diff := cmp.Diff(tc.want, buf); diff != "" {
				t.Errorf("swapEndian (-want +got):\n%s", diff)
			}

			// Swapping twice must round-trip.
			swapEndian(buf)
			if diff := cmp.Diff(tc.in, buf); diff != "" {
				t.Errorf("swapEndian twice (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSwapEndianIfBigNoopOnLittleEndian(t *testing.T) {
	t.Parallel()

	if nativeIsBigEndian {
		t.Skip("host is big-endian; swapEndianIfBig is expected to swap here")
	}

	buf := []byte{0x01, 0x02, 0x03, 0x04}
	orig := append([]byte(nil), buf...)
	swapEndianIfBig(buf)
	if diff := cmp.Diff(orig, buf); diff != "" {
		t.Errorf("swapEndianIfBig on little-endian host modified buf (-want +got):\n%s", diff)
	}
}
