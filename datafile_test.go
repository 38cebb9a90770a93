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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCreate(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.map")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return w, path
}

func TestWriterReaderEmptyFile(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumItems(); got != 0 {
		t.Errorf("NumItems() = %d, want 0", got)
	}
	if got := r.NumData(); got != 0 {
		t.Errorf("NumData() = %d, want 0", got)
	}
	if got := r.NumItemTypes(); got != 0 {
		t.Errorf("NumItemTypes() = %d, want 0", got)
	}
}

func TestWriterReaderSingleItem(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	if _, err := w.AddItem(7, 42, payload); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumItems(); got != 1 {
		t.Fatalf("NumItems() = %d, want 1", got)
	}

	var typ, id int
	got := r.Item(0, &typ, &id)
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Errorf("Item(0) payload (-want +got):\n%s", diff)
	}
	if typ != 7 || id != 42 {
		t.Errorf("Item(0) type/id = %d/%d, want 7/42", typ, id)
	}
	if got := r.ItemSize(0); got != 4 {
		t.Errorf("ItemSize(0) = %d, want 4", got)
	}

	start, num := r.Type(7)
	if start != 0 || num != 1 {
		t.Errorf("Type(7) = (%d, %d), want (0, 1)", start, num)
	}
}

func TestWriterReaderSingleBlob(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	blob := make([]byte, 16)
	if _, err := w.AddData(blob); err != nil {
		t.Fatalf("AddData: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumData(); got != 1 {
		t.Fatalf("NumData() = %d, want 1", got)
	}
	if got := r.DataSize(0); got != 16 {
		t.Errorf("DataSize(0) before load = %d, want 16", got)
	}
	got, err := r.Data(0)
	if err != nil {
		t.Fatalf("Data(0): %v", err)
	}
	if diff := cmp.Diff(blob, got); diff != "" {
		t.Errorf("Data(0) (-want +got):\n%s", diff)
	}
	if got := r.DataSize(0); got != 16 {
		t.Errorf("DataSize(0) after load = %d, want 16", got)
	}
}

func TestWriterReaderTypeGroupingAscending(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	type seed struct {
		typ, id int
		payload []byte
	}
	seeds := []seed{
		{typ: 5, id: 1, payload: []byte{1, 0, 0, 0}},
		{typ: 9, id: 1, payload: []byte{2, 0, 0, 0}},
		{typ: 5, id: 2, payload: []byte{3, 0, 0, 0}},
		{typ: 2, id: 1, payload: []byte{4, 0, 0, 0}},
	}
	for _, s := range seeds {
		if _, err := w.AddItem(s.typ, s.id, s.payload); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if got := r.NumItemTypes(); got != 3 {
		t.Fatalf("NumItemTypes() = %d, want 3", got)
	}

	start, num := r.Type(5)
	if num != 2 {
		t.Fatalf("Type(5).num = %d, want 2", num)
	}
	// Ascending type order puts the single type-2 item first.
	if start != 1 {
		t.Errorf("Type(5).start = %d, want 1", start)
	}
	var id int
	r.Item(start, nil, &id)
	if id != 1 {
		t.Errorf("Type(5) first item id = %d, want 1", id)
	}
	r.Item(start+1, nil, &id)
	if id != 2 {
		t.Errorf("Type(5) second item id = %d, want 2", id)
	}

	if got := r.FindItem(9, 1); !cmp.Equal(got, []byte{2, 0, 0, 0}) {
		t.Errorf("FindItem(9, 1) = %v, want [2 0 0 0]", got)
	}
	if got := r.FindItem(9, 99); got != nil {
		t.Errorf("FindItem(9, 99) = %v, want nil", got)
	}
}

func TestReaderHashDeterminism(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if _, err := w.AddItem(1, 0, []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r1.Close()
	r2, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r2.Close()

	if r1.CRC32() != r2.CRC32() {
		t.Errorf("CRC32 mismatch across opens: %x vs %x", r1.CRC32(), r2.CRC32())
	}
	if r1.SHA256() != r2.SHA256() {
		t.Errorf("SHA256 mismatch across opens")
	}
	if r1.CRC32() == noFileCRC32 {
		t.Errorf("CRC32() returned the no-file sentinel for an open file")
	}
}

func TestReaderLazyCachingAndUnload(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if _, err := w.AddData([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("AddData: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	first, err := r.Data(0)
	if err != nil {
		t.Fatalf("Data(0): %v", err)
	}
	second, err := r.Data(0)
	if err != nil {
		t.Fatalf("Data(0) second call: %v", err)
	}
	if &first[0] != &second[0] {
		t.Errorf("Data(0) returned a different backing array on second call")
	}

	r.Unload(0)
	third, err := r.Data(0)
	if err != nil {
		t.Fatalf("Data(0) after unload: %v", err)
	}
	if diff := cmp.Diff(first, third); diff != "" {
		t.Errorf("Data(0) after unload content (-want +got):\n%s", diff)
	}
}

func TestReaderReplace(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if _, err := w.AddData([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("AddData: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	replacement := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	if err := r.Replace(0, replacement); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := r.Data(0)
	if err != nil {
		t.Fatalf("Data(0): %v", err)
	}
	if diff := cmp.Diff(replacement, got); diff != "" {
		t.Errorf("Data(0) after Replace (-want +got):\n%s", diff)
	}
	if got := r.DataSize(0); got != len(replacement) {
		t.Errorf("DataSize(0) after Replace = %d, want %d", got, len(replacement))
	}
}

func TestOpenMagicTolerance(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if _, err := w.AddItem(7, 42, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	copy(data[0:4], magicLegacy[:])
	legacyPath := path + ".legacy"
	if err := os.WriteFile(legacyPath, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	r, err := Open(legacyPath)
	if err != nil {
		t.Fatalf("Open legacy magic: %v", err)
	}
	defer r.Close()

	if got := r.NumItems(); got != 1 {
		t.Errorf("NumItems() = %d, want 1", got)
	}
}

func TestOpenBadMagic(t *testing.T) {
	t.Parallel()

	w, path := mustCreate(t)
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	copy(data[0:4], []byte("XXXX"))
	badPath := path + ".bad"
	if err := os.WriteFile(badPath, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	_, err = Open(badPath)
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Open bad magic error = %v, want ErrFormat", err)
	}
}

func TestAddItemPrecondition(t *testing.T) {
	t.Parallel()

	w, _ := mustCreate(t)
	defer w.Finish() //nolint:errcheck

	if _, err := w.AddItem(0x10000, 0, nil); !errors.Is(err, ErrPrecondition) {
		t.Errorf("AddItem(type out of range) error = %v, want ErrPrecondition", err)
	}
	if _, err := w.AddItem(0, 0, []byte{1, 2, 3}); !errors.Is(err, ErrPrecondition) {
		t.Errorf("AddItem(unaligned payload) error = %v, want ErrPrecondition", err)
	}
}
