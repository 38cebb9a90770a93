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
	"log/slog"
	"os"
	"sort"

	"github.com/klauspost/compress/zlib"
)

// DefaultCompressionLevel is the zlib compression level Writer uses unless
// overridden by WithCompressionLevel.
const DefaultCompressionLevel = zlib.DefaultCompression

type writerItem struct {
	typ     int32
	id      int32
	payload []byte
}

type writerBlob struct {
	uncompressedSize int32
	compressed       []byte
}

// Writer builds a DATAFILE incrementally: add items and data blobs in any
// order, then call Finish to compress, lay out, and write the canonical
// file. Writer is not safe for concurrent use by multiple goroutines.
type Writer struct {
	log   *slog.Logger
	level int

	file  *os.File
	items []writerItem
	blobs []writerBlob
}

// WriterOption configures a Writer constructed by Create.
type WriterOption func(*Writer)

// WithCompressionLevel overrides the zlib compression level used by
// AddData/AddDataSwapped. See the flate/zlib level constants.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) { w.level = level }
}

// WithWriterLogger threads a logger into a single Writer instance without
// touching the package-level default installed by SetLogger.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(w *Writer) { w.log = l }
}

// Create opens filename for writing a new DATAFILE. The file is not
// populated on disk until Finish is called.
func Create(filename string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		log:   defaultLog.Load(),
		level: DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(w)
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %q: %w", ErrDatafile, filename, err)
	}
	w.file = f

	debugf(w.log, "datafile", "writer opened", slog.String("filename", filename))
	return w, nil
}

// AddItem appends an item of the given type and id, copying payload. It
// returns the item's index, stable for the lifetime of this Writer. typ
// must be in [0, 0x10000) and len(payload) must be a multiple of 4;
// violating either returns ErrPrecondition.
func (w *Writer) AddItem(typ, id int, payload []byte) (int, error) {
	if w.file == nil {
		return 0, errNotOpen
	}
	if typ < 0 || typ >= 0x10000 {
		return 0, fmt.Errorf("%w: type %d out of range", ErrPrecondition, typ)
	}
	if len(payload)%4 != 0 {
		return 0, fmt.Errorf("%w: payload size %d not a multiple of 4", ErrPrecondition, len(payload))
	}

	cp := make([]byte, len(payload))
	copy(cp, payload)
	w.items = append(w.items, writerItem{typ: int32(typ), id: int32(id), payload: cp})
	return len(w.items) - 1, nil
}

// AddData compresses data with DEFLATE (zlib-wrapped) and appends it as a
// new blob, returning its index.
func (w *Writer) AddData(data []byte) (int, error) {
	if w.file == nil {
		return 0, errNotOpen
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, w.level)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCompress, err)
	}
	if _, err := zw.Write(data); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCompress, err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCompress, err)
	}

	compressed := make([]byte, buf.Len())
	copy(compressed, buf.Bytes())

	w.blobs = append(w.blobs, writerBlob{
		uncompressedSize: int32(len(data)),
		compressed:       compressed,
	})
	return len(w.blobs) - 1, nil
}

// AddDataSwapped is like AddData, but on a big-endian host it first copies
// and byte-swaps data as an array of 4-byte ints before compressing. On a
// little-endian host it is identical to AddData. len(data) must be a
// multiple of 4.
func (w *Writer) AddDataSwapped(data []byte) (int, error) {
	if len(data)%4 != 0 {
		return 0, fmt.Errorf("%w: data size %d not a multiple of 4", ErrPrecondition, len(data))
	}
	if !nativeIsBigEndian {
		return w.AddData(data)
	}

	swapped := make([]byte, len(data))
	copy(swapped, data)
	swapEndian(swapped)
	return w.AddData(swapped)
}

// groupedTypes returns the distinct item types in ascending numeric order,
// each with the indices into w.items of its items in original insertion
// order.
func (w *Writer) groupedTypes() ([]int32, map[int32][]int) {
	byType := make(map[int32][]int)
	for i, it := range w.items {
		byType[it.typ] = append(byType[it.typ], i)
	}
	types := make([]int32, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types, byType
}

// Finish computes the final layout, writes the file, and releases all
// owned buffers. Finish is idempotent: calling it again on an already
// finished Writer is a no-op.
func (w *Writer) Finish() error {
	if w.file == nil {
		return nil
	}

	types, byType := w.groupedTypes()

	itemSize := 0
	for _, it := range w.items {
		itemSize += itemHeaderSize + len(it.payload)
	}
	dataSize := 0
	for _, b := range w.blobs {
		dataSize += len(b.compressed)
	}

	typesSize := len(types) * itemTypeSize
	offsetsSize := (len(w.items) + 2*len(w.blobs)) * 4
	fileSize := headerSize + typesSize + offsetsSize + itemSize + dataSize
	swapSize := fileSize - dataSize

	hdr := header{
		magic:        magicCanonical,
		version:      VersionCurrent,
		size:         int32(fileSize - 16),
		swaplen:      int32(swapSize - 16),
		numItemTypes: int32(len(types)),
		numItems:     int32(len(w.items)),
		numRawData:   int32(len(w.blobs)),
		itemSize:     int32(itemSize),
		dataSize:     int32(dataSize),
	}

	headerBuf := hdr.marshal()
	swapEndianIfBig(headerBuf)
	if _, err := w.file.Write(headerBuf); err != nil {
		return fmt.Errorf("%w: writing header: %w", ErrDatafile, err)
	}

	// ItemTypes table, ascending type order.
	count := int32(0)
	for _, t := range types {
		buf := marshalItemType(itemType{typ: t, start: count, num: int32(len(byType[t]))})
		swapEndianIfBig(buf)
		if _, err := w.file.Write(buf); err != nil {
			return fmt.Errorf("%w: writing item type: %w", ErrDatafile, err)
		}
		count += int32(len(byType[t]))
	}

	// ItemOffsets: running byte offset within the ItemPayload region.
	offset := int32(0)
	for _, t := range types {
		for _, idx := range byType[t] {
			buf := make([]byte, 4)
			putInt32LE(buf, offset)
			swapEndianIfBig(buf)
			if _, err := w.file.Write(buf); err != nil {
				return fmt.Errorf("%w: writing item offset: %w", ErrDatafile, err)
			}
			offset += int32(itemHeaderSize + len(w.items[idx].payload))
		}
	}

	// DataOffsets: running compressed byte offset within the DataRegion.
	offset = 0
	for _, b := range w.blobs {
		buf := make([]byte, 4)
		putInt32LE(buf, offset)
		swapEndianIfBig(buf)
		if _, err := w.file.Write(buf); err != nil {
			return fmt.Errorf("%w: writing data offset: %w", ErrDatafile, err)
		}
		offset += int32(len(b.compressed))
	}

	// DataUncompressedSizes, one per blob.
	for _, b := range w.blobs {
		buf := make([]byte, 4)
		putInt32LE(buf, b.uncompressedSize)
		swapEndianIfBig(buf)
		if _, err := w.file.Write(buf); err != nil {
			return fmt.Errorf("%w: writing data size: %w", ErrDatafile, err)
		}
	}

	// Item records: {type_and_id, size} header followed by payload.
	for _, t := range types {
		for _, idx := range byType[t] {
			it := w.items[idx]
			rec := itemRecordHeader{
				typeAndID: (it.typ << 16) | it.id,
				size:      int32(len(it.payload)),
			}
			recBuf := marshalItemRecordHeader(rec)
			swapEndianIfBig(recBuf)
			if _, err := w.file.Write(recBuf); err != nil {
				return fmt.Errorf("%w: writing item header: %w", ErrDatafile, err)
			}

			payload := it.payload
			if nativeIsBigEndian {
				swapEndian(payload)
			}
			if _, err := w.file.Write(payload); err != nil {
				return fmt.Errorf("%w: writing item payload: %w", ErrDatafile, err)
			}
		}
	}

	// Compressed blob bytes, never swapped.
	for _, b := range w.blobs {
		if _, err := w.file.Write(b.compressed); err != nil {
			return fmt.Errorf("%w: writing blob: %w", ErrDatafile, err)
		}
	}

	err := w.file.Close()
	w.file = nil
	w.items = nil
	w.blobs = nil

	debugf(w.log, "datafile", "writer finished", slog.Int("file_size", fileSize))
	if err != nil {
		return fmt.Errorf("%w: closing: %w", ErrDatafile, err)
	}
	return nil
}

func putInt32LE(buf []byte, v int32) {
	u := uint32(v)
	buf[0] = byte(u)
	buf[1] = byte(u >> 8)
	buf[2] = byte(u >> 16)
	buf[3] = byte(u >> 24)
}
