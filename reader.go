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
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zlib"
)

// Reader provides random access to the items and data blobs of a DATAFILE.
// A zero Reader is not usable; construct one with Open. Reader is not safe
// for concurrent use by multiple goroutines.
type Reader struct {
	log *slog.Logger

	file *os.File
	hdr  header

	itemTypes    []itemType
	itemOffsets  []int32
	dataOffsets  []int32
	dataRawSizes []int32 // v4 only: declared uncompressed sizes

	itemPayload []byte // the ItemPayload region, already endian-normalized
	dataStart   int64  // disk offset where the DataRegion begins

	blobs     [][]byte
	blobSizes []int32

	crc32  uint32
	sha256 SHA256Digest
}

// ReaderOption configures a Reader constructed by Open.
type ReaderOption func(*Reader)

// WithReaderLogger threads a logger into a single Reader instance without
// touching the package-level default installed by SetLogger.
func WithReaderLogger(l *slog.Logger) ReaderOption {
	return func(r *Reader) { r.log = l }
}

// Open parses filename as a DATAFILE: it streams the whole file through
// CRC-32 and SHA-256, validates the header, and loads the metadata region
// (item types, offset tables, item payloads) into memory. Data blobs are
// not read until first access; see Data.
//
// On any failure the Reader is left empty: every query returns a zero or
// null result, and a second Open may be attempted.
func Open(filename string, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{log: defaultLog.Load()}
	for _, opt := range opts {
		opt(r)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", ErrDatafile, filename, err)
	}

	if err := r.load(f); err != nil {
		f.Close() //nolint:errcheck // best effort on the failure path
		return nil, err
	}

	return r, nil
}

func (r *Reader) load(f *os.File) error {
	debugf(r.log, "datafile", "loading", slog.String("filename", f.Name()))

	crc, sha, err := fileDigests(f)
	if err != nil {
		return fmt.Errorf("%w: hashing: %w", ErrDatafile, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %w", ErrDatafile, err)
	}

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(f, headerBuf); err != nil {
		return formatErr(fmt.Errorf("reading header: %w", err))
	}

	// The magic is checked on the raw, pre-swap bytes: it is a byte string,
	// not an integer, and swapping first would corrupt it before the
	// comparison. Endian swap is applied to the whole header only after.
	var magic [4]byte
	copy(magic[:], headerBuf[0:4])
	if magic != magicCanonical && magic != magicLegacy {
		return formatErr(fmt.Errorf("bad magic: %x", magic))
	}

	swapEndianIfBig(headerBuf)
	hdr := unmarshalHeader(headerBuf)
	if !hdr.hasValidVersion() {
		return formatErr(fmt.Errorf("unsupported version: %d", hdr.version))
	}
	if hdr.numItemTypes < 0 || hdr.numItems < 0 || hdr.numRawData < 0 || hdr.itemSize < 0 {
		return fmt.Errorf("%w: negative count in header", ErrInvalidSize)
	}

	metaSize := int64(hdr.numItemTypes)*itemTypeSize +
		(int64(hdr.numItems)+int64(hdr.numRawData))*4 +
		int64(hdr.itemSize)
	if hdr.version == VersionCurrent {
		metaSize += int64(hdr.numRawData) * 4
	}
	if metaSize > maxRegionSize || metaSize < 0 {
		return fmt.Errorf("%w: metadata region %d exceeds cap", ErrInvalidSize, metaSize)
	}

	metaBuf := make([]byte, metaSize)
	if _, err := io.ReadFull(f, metaBuf); err != nil {
		return truncatedErr(fmt.Errorf("reading metadata: %w", err))
	}
	swapEndianIfBig(metaBuf[:minInt(int(hdr.swaplen), len(metaBuf))])

	r.hdr = hdr
	r.file = f
	r.crc32 = crc
	r.sha256 = sha

	off := 0
	r.itemTypes = make([]itemType, hdr.numItemTypes)
	for i := range r.itemTypes {
		r.itemTypes[i] = unmarshalItemType(metaBuf[off : off+itemTypeSize])
		off += itemTypeSize
	}

	r.itemOffsets = make([]int32, hdr.numItems)
	for i := range r.itemOffsets {
		r.itemOffsets[i] = readInt32LE(metaBuf, off)
		off += 4
	}

	r.dataOffsets = make([]int32, hdr.numRawData)
	for i := range r.dataOffsets {
		r.dataOffsets[i] = readInt32LE(metaBuf, off)
		off += 4
	}

	if hdr.version == VersionCurrent {
		r.dataRawSizes = make([]int32, hdr.numRawData)
		for i := range r.dataRawSizes {
			r.dataRawSizes[i] = readInt32LE(metaBuf, off)
			off += 4
		}
	}

	r.itemPayload = metaBuf[off : off+int(hdr.itemSize)]
	r.dataStart = headerSize + metaSize

	r.blobs = make([][]byte, hdr.numRawData)
	r.blobSizes = make([]int32, hdr.numRawData)

	debugf(r.log, "datafile", "loaded", slog.Int64("metadata_size", metaSize), slog.Int("item_size", int(hdr.itemSize)))
	return nil
}

func readInt32LE(buf []byte, off int) int32 {
	return int32(uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24)
}

// NumItems returns the number of items in the file.
func (r *Reader) NumItems() int {
	if r == nil || r.file == nil {
		return 0
	}
	return int(r.hdr.numItems)
}

// NumData returns the number of data blobs in the file.
func (r *Reader) NumData() int {
	if r == nil || r.file == nil {
		return 0
	}
	return int(r.hdr.numRawData)
}

// NumItemTypes returns the number of item-type descriptors in the file.
func (r *Reader) NumItemTypes() int {
	if r == nil || r.file == nil {
		return 0
	}
	return int(r.hdr.numItemTypes)
}

// itemRecordRange returns the on-disk [start, end) byte range of item
// index's record (including its 8-byte {type_and_id, size} header) within
// the ItemPayload region.
func (r *Reader) itemRecordRange(index int) (int32, int32, bool) {
	if index < 0 || index >= len(r.itemOffsets) {
		return 0, 0, false
	}
	start := r.itemOffsets[index]
	var end int32
	if index == len(r.itemOffsets)-1 {
		end = r.hdr.itemSize
	} else {
		end = r.itemOffsets[index+1]
	}
	return start, end, true
}

// Item returns the payload bytes of the item at index, and optionally
// decodes its type and id. An out-of-range index returns a nil slice and
// zeroes typ/id.
func (r *Reader) Item(index int, typ, id *int) []byte {
	if typ != nil {
		*typ = 0
	}
	if id != nil {
		*id = 0
	}
	if r == nil || r.file == nil {
		return nil
	}

	start, end, ok := r.itemRecordRange(index)
	if !ok || end-start < itemHeaderSize {
		return nil
	}

	rec := unmarshalItemRecordHeader(r.itemPayload[start : start+itemHeaderSize])
	if typ != nil {
		*typ = int((rec.typeAndID >> 16) & 0xFFFF)
	}
	if id != nil {
		*id = int(rec.typeAndID & 0xFFFF)
	}

	payloadStart := start + itemHeaderSize
	return r.itemPayload[payloadStart:end]
}

// ItemSize returns the on-disk payload length of item index, 0 for an
// out-of-range index or an empty record.
func (r *Reader) ItemSize(index int) int {
	if r == nil || r.file == nil {
		return 0
	}
	start, end, ok := r.itemRecordRange(index)
	if !ok || end-start < itemHeaderSize {
		return 0
	}
	return int(end - start - itemHeaderSize)
}

// Type returns the item-index range [start, start+num) of items whose type
// equals typ. A miss returns (0, 0).
func (r *Reader) Type(typ int) (start, num int) {
	if r == nil || r.file == nil {
		return 0, 0
	}
	for _, it := range r.itemTypes {
		if int(it.typ) == typ {
			return int(it.start), int(it.num)
		}
	}
	return 0, 0
}

// FindItem returns the payload bytes of the first item with the given type
// and id, or nil if none matches.
func (r *Reader) FindItem(typ, id int) []byte {
	if r == nil || r.file == nil {
		return nil
	}
	start, num := r.Type(typ)
	for i := 0; i < num; i++ {
		var gotID int
		payload := r.Item(start+i, nil, &gotID)
		if gotID == id {
			return payload
		}
	}
	return nil
}

// dataRange returns the on-disk [start, end) compressed byte range of blob
// index within the DataRegion.
func (r *Reader) dataRange(index int) (int32, int32, bool) {
	if index < 0 || index >= len(r.dataOffsets) {
		return 0, 0, false
	}
	start := r.dataOffsets[index]
	var end int32
	if index == len(r.dataOffsets)-1 {
		end = r.hdr.dataSize
	} else {
		end = r.dataOffsets[index+1]
	}
	return start, end, true
}

// DataSize returns the size of data blob index: the declared uncompressed
// size (v4) or the on-disk compressed byte count (v3) if not yet loaded,
// or the actually materialized length once loaded.
func (r *Reader) DataSize(index int) int {
	if r == nil || r.file == nil || index < 0 || index >= len(r.blobs) {
		return 0
	}
	if r.blobs[index] != nil {
		return int(r.blobSizes[index])
	}
	if r.hdr.version == VersionCurrent {
		return int(r.dataRawSizes[index])
	}
	start, end, _ := r.dataRange(index)
	return int(end - start)
}

// Data returns the decompressed bytes of data blob index, loading and
// caching them on first access. Out-of-range index returns nil.
func (r *Reader) Data(index int) ([]byte, error) {
	return r.dataImpl(index, false)
}

// DataSwapped is like Data but, on a big-endian host, additionally swaps
// the returned buffer as an array of 4-byte ints before caching it. The
// swap choice is fixed at the moment a blob is first loaded: whichever of
// Data/DataSwapped is called first determines what is cached until the
// next Unload.
func (r *Reader) DataSwapped(index int) ([]byte, error) {
	return r.dataImpl(index, true)
}

func (r *Reader) dataImpl(index int, swap bool) ([]byte, error) {
	if r == nil || r.file == nil {
		return nil, nil
	}
	if index < 0 || index >= len(r.blobs) {
		return nil, nil
	}
	if r.blobs[index] != nil {
		return r.blobs[index], nil
	}

	start, end, _ := r.dataRange(index)
	compressed := make([]byte, end-start)
	if _, err := r.file.ReadAt(compressed, r.dataStart+int64(start)); err != nil {
		return nil, fmt.Errorf("%w: reading blob %d: %w", ErrDatafile, index, err)
	}

	var plain []byte
	if r.hdr.version == VersionCurrent {
		uncompressedSize := r.dataRawSizes[index]
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("%w: blob %d: %w", ErrDecompress, index, err)
		}
		plain = make([]byte, uncompressedSize)
		if _, err := io.ReadFull(zr, plain); err != nil {
			zr.Close() //nolint:errcheck
			return nil, fmt.Errorf("%w: blob %d: %w", ErrDecompress, index, err)
		}
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("%w: blob %d: %w", ErrDecompress, index, err)
		}
	} else {
		// v3: the on-disk bytes ARE the uncompressed data.
		plain = compressed
	}

	if swap {
		swapEndianIfBig(plain)
	}

	r.blobs[index] = plain
	r.blobSizes[index] = int32(len(plain))
	debugf(r.log, "datafile", "loaded blob", slog.Int("index", index), slog.Int("size", len(plain)))
	return plain, nil
}

// Unload releases the cached decompressed buffer for blob index, if any,
// permitting it to be reloaded from disk on next access.
func (r *Reader) Unload(index int) {
	if r == nil || r.file == nil || index < 0 || index >= len(r.blobs) {
		return
	}
	r.blobs[index] = nil
	r.blobSizes[index] = 0
}

// Replace installs data as the cached contents of blob index, first
// forcing a load (so the slot's ownership is established) and then
// discarding whatever was loaded in favor of data. After Replace, the
// Reader owns data until the next Unload or Close.
func (r *Reader) Replace(index int, data []byte) error {
	if r == nil || r.file == nil || index < 0 || index >= len(r.blobs) {
		return nil
	}
	if _, err := r.dataImpl(index, false); err != nil {
		return err
	}
	r.blobs[index] = data
	r.blobSizes[index] = int32(len(data))
	return nil
}

// CRC32 returns the IEEE CRC-32 of the whole file, or the sentinel
// 0xFFFFFFFF if no file is open.
func (r *Reader) CRC32() uint32 {
	if r == nil || r.file == nil {
		return noFileCRC32
	}
	return r.crc32
}

// SHA256 returns the SHA-256 digest of the whole file, or the all-zero
// sentinel if no file is open.
func (r *Reader) SHA256() SHA256Digest {
	if r == nil || r.file == nil {
		return zeroSHA256
	}
	return r.sha256
}

// Close releases every cached blob buffer and closes the underlying file.
// Close is idempotent.
func (r *Reader) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	for i := range r.blobs {
		r.blobs[i] = nil
		r.blobSizes[i] = 0
	}
	err := r.file.Close()
	r.file = nil
	return err
}
