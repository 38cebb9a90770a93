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

// Package datafile implements the tagged-chunk DATAFILE container format:
// a fixed 36-byte header, a table of item types, parallel offset tables for
// items and compressed data blobs, an item payload region, and a
// concatenated DEFLATE-compressed data region.
//
// The format is little-endian canonical. Readers tolerate big-endian hosts
// by swapping the header and the int-aligned metadata region in place; the
// compressed data region is never swapped.
//
// Unless otherwise noted, a Reader or Writer is not safe for concurrent use
// by multiple goroutines.
package datafile
