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
	"crypto/sha256"
	"hash/crc32"
	"io"
)

// noFileCRC32 is the sentinel CRC-32 value returned by a Reader with no
// file open.
const noFileCRC32 = 0xFFFFFFFF

// SHA256Digest is a 32-byte FIPS-180-4 SHA-256 digest.
type SHA256Digest [sha256.Size]byte

// zeroSHA256 is the sentinel digest returned by a Reader with no file open.
var zeroSHA256 SHA256Digest

// fileDigests streams r through CRC-32 (IEEE) and SHA-256 in one pass,
// returning the whole-file checksums used for integrity reporting. It does
// not rewind r; the caller must seek back to the start before parsing the
// header.
func fileDigests(r io.Reader) (uint32, SHA256Digest, error) {
	crc := crc32.NewIEEE()
	sha := sha256.New()
	mw := io.MultiWriter(crc, sha)

	if _, err := io.Copy(mw, r); err != nil {
		return 0, SHA256Digest{}, err
	}

	var digest SHA256Digest
	copy(digest[:], sha.Sum(nil))
	return crc.Sum32(), digest, nil
}
