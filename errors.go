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
	"errors"
	"fmt"
)

var (
	// ErrDatafile is the base error all errors from this package wrap.
	ErrDatafile = errors.New("datafile")

	// ErrFormat indicates a bad magic or an unsupported version.
	ErrFormat = fmt.Errorf("%w: invalid format", ErrDatafile)

	// ErrInvalidSize indicates a negative count or a metadata/overflow size
	// that exceeds the 2^31 safety cap.
	ErrInvalidSize = fmt.Errorf("%w: invalid size", ErrDatafile)

	// ErrTruncated indicates a short read of the metadata region.
	ErrTruncated = fmt.Errorf("%w: truncated file", ErrDatafile)

	// ErrDecompress indicates a DEFLATE decompression failure while
	// lazily loading a data blob.
	ErrDecompress = fmt.Errorf("%w: decompress", ErrDatafile)

	// ErrCompress indicates a DEFLATE compression failure while adding a
	// data blob to a Writer.
	ErrCompress = fmt.Errorf("%w: compress", ErrDatafile)

	// ErrPrecondition indicates a caller violated a Writer precondition:
	// an out-of-range item type, or an item payload or swapped data size
	// that is not a multiple of 4. Item and data counts are not capped.
	ErrPrecondition = fmt.Errorf("%w: precondition violation", ErrDatafile)

	errNotOpen = fmt.Errorf("%w: not open", ErrDatafile)
)

func formatErr(err error) error {
	return fmt.Errorf("%w: %w", ErrFormat, err)
}

func truncatedErr(err error) error {
	return fmt.Errorf("%w: %w", ErrTruncated, err)
}
