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

import "encoding/binary"

// headerSize is the fixed on-disk size of the header, in bytes.
const headerSize = 36

// itemTypeSize is the on-disk size of a single ItemTypes table entry.
const itemTypeSize = 12

// itemHeaderSize is the on-disk size of an item record's
// {type_and_id, size} header, preceding the payload bytes.
const itemHeaderSize = 8

const (
	// VersionLegacy is the oldest version Readers accept. v3 files carry
	// no per-blob uncompressed-size table; the on-disk compressed byte
	// count is used as the destination buffer size and the bytes are
	// read raw rather than run through DEFLATE.
	VersionLegacy = 3

	// VersionCurrent is the version Writers always emit and the newest
	// version Readers accept. v4 adds the DataUncompressedSizes table.
	VersionCurrent = 4
)

// magicCanonical is the ASCII magic Writers always emit.
var magicCanonical = [4]byte{'D', 'A', 'T', 'A'}

// magicLegacy is a byte-reversed magic Readers additionally tolerate.
var magicLegacy = [4]byte{'A', 'T', 'A', 'D'}

// maxRegionSize is the hard safety cap (2^31) on the combined size of the
// ItemTypes, ItemOffsets, DataOffsets, DataUncompressedSizes, and
// ItemPayload regions.
const maxRegionSize = 1 << 31

// header is the fixed 36-byte on-disk header, decoded in host field order.
// All fields are stored little-endian on disk; swap is applied on
// big-endian hosts both on read and on write.
type header struct {
	magic        [4]byte
	version      int32
	size         int32
	swaplen      int32
	numItemTypes int32
	numItems     int32
	numRawData   int32
	itemSize     int32
	dataSize     int32
}

func (h *header) hasValidVersion() bool {
	return h.version == VersionLegacy || h.version == VersionCurrent
}

// marshal encodes h into a fresh 36-byte little-endian buffer.
func (h *header) marshal() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], h.magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.version))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.size))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.swaplen))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(h.numItemTypes))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(h.numItems))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(h.numRawData))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(h.itemSize))
	binary.LittleEndian.PutUint32(buf[32:36], uint32(h.dataSize))
	return buf
}

// unmarshalHeader decodes a 36-byte little-endian buffer into a header.
// The caller is responsible for validating magic/version afterwards.
func unmarshalHeader(buf []byte) header {
	var h header
	copy(h.magic[:], buf[0:4])
	h.version = int32(binary.LittleEndian.Uint32(buf[4:8]))
	h.size = int32(binary.LittleEndian.Uint32(buf[8:12]))
	h.swaplen = int32(binary.LittleEndian.Uint32(buf[12:16]))
	h.numItemTypes = int32(binary.LittleEndian.Uint32(buf[16:20]))
	h.numItems = int32(binary.LittleEndian.Uint32(buf[20:24]))
	h.numRawData = int32(binary.LittleEndian.Uint32(buf[24:28]))
	h.itemSize = int32(binary.LittleEndian.Uint32(buf[28:32]))
	h.dataSize = int32(binary.LittleEndian.Uint32(buf[32:36]))
	return h
}

// itemType is a single {type, start, num} ItemTypes table descriptor.
type itemType struct {
	typ   int32
	start int32
	num   int32
}

func marshalItemType(it itemType) []byte {
	buf := make([]byte, itemTypeSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(it.typ))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(it.start))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(it.num))
	return buf
}

func unmarshalItemType(buf []byte) itemType {
	return itemType{
		typ:   int32(binary.LittleEndian.Uint32(buf[0:4])),
		start: int32(binary.LittleEndian.Uint32(buf[4:8])),
		num:   int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

// itemRecordHeader is the {type_and_id, size} pair preceding an item's
// payload bytes in the ItemPayload region.
type itemRecordHeader struct {
	typeAndID int32
	size      int32
}

func marshalItemRecordHeader(h itemRecordHeader) []byte {
	buf := make([]byte, itemHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.typeAndID))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.size))
	return buf
}

func unmarshalItemRecordHeader(buf []byte) itemRecordHeader {
	return itemRecordHeader{
		typeAndID: int32(binary.LittleEndian.Uint32(buf[0:4])),
		size:      int32(binary.LittleEndian.Uint32(buf[4:8])),
	}
}
