// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch groups encoded examples into length-sorted, padded batches.
package batch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nlpodyssey/gorelex/vocabulary"
)

var (
	ErrInvalidBatchSize = errors.New("batch: batch size must be positive")
	ErrInvalidMaxLen    = errors.New("batch: maximum length must be positive")
)

// Sequences is an encoded example: five parallel sequences of equal length
// plus its relation id.
type Sequences struct {
	Words         []int
	POS           []int
	NER           []int
	SubjPositions []int
	ObjPositions  []int
	Relation      int
}

func (s *Sequences) Len() int {
	return len(s.Words)
}

type Batch struct {
	Words         *Matrix
	POS           *Matrix
	NER           *Matrix
	SubjPositions *Matrix
	ObjPositions  *Matrix
	Relations     []int
	// OrigIdx[i] is the position, within the unsorted chunk, of the example
	// at sorted position i.
	OrigIdx []int
}

// Build splits examples into contiguous chunks of at most batchSize, then
// sorts and pads each chunk. Rows are padded up to the longest sequence of
// their chunk, capped at maxLen.
func Build(examples []Sequences, batchSize, maxLen int) ([]*Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, batchSize)
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxLen, maxLen)
	}

	batches := make([]*Batch, 0, (len(examples)+batchSize-1)/batchSize)
	for start := 0; start < len(examples); start += batchSize {
		end := start + batchSize
		if end > len(examples) {
			end = len(examples)
		}
		batches = append(batches, newBatch(examples[start:end], maxLen))
	}
	return batches, nil
}

func newBatch(chunk []Sequences, maxLen int) *Batch {
	origIdx := sortByLength(chunk)
	size := len(chunk)

	sorted := make([]*Sequences, size)
	for i, j := range origIdx {
		sorted[i] = &chunk[j]
	}

	width := 0
	for _, s := range sorted {
		if s.Len() > width {
			width = s.Len()
		}
	}
	if width > maxLen {
		width = maxLen
	}

	b := &Batch{
		Words:         NewMatrix(size, width),
		POS:           NewMatrix(size, width),
		NER:           NewMatrix(size, width),
		SubjPositions: NewMatrix(size, width),
		ObjPositions:  NewMatrix(size, width),
		Relations:     make([]int, size),
		OrigIdx:       origIdx,
	}
	for i, s := range sorted {
		b.Words.SetRow(i, s.Words)
		b.POS.SetRow(i, s.POS)
		b.NER.SetRow(i, s.NER)
		b.SubjPositions.SetRow(i, s.SubjPositions)
		b.ObjPositions.SetRow(i, s.ObjPositions)
		b.Relations[i] = s.Relation
	}
	return b
}

// sortByLength returns the chunk indices ordered by descending sequence
// length. Equal lengths are ordered by descending index.
func sortByLength(chunk []Sequences) []int {
	idx := make([]int, len(chunk))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		la, lb := chunk[idx[a]].Len(), chunk[idx[b]].Len()
		if la != lb {
			return la > lb
		}
		return idx[a] > idx[b]
	})
	return idx
}

func (b *Batch) Size() int {
	return len(b.Relations)
}

// RecoverIdx returns the inverse of OrigIdx: for each position of the
// unsorted chunk, where that example sits in the batch.
func (b *Batch) RecoverIdx() []int {
	now := make([]int, len(b.OrigIdx))
	for i, orig := range b.OrigIdx {
		now[orig] = i
	}
	return now
}

// Restore reorders per-example values given in batch order (e.g. model
// predictions) back to the order of the unsorted chunk. values must hold
// Size() elements.
func (b *Batch) Restore(values []int) []int {
	out := make([]int, len(values))
	for i, orig := range b.OrigIdx {
		out[orig] = values[i]
	}
	return out
}

// Labels returns the relation ids in the order of the unsorted chunk.
func (b *Batch) Labels() []int {
	return b.Restore(b.Relations)
}

// Mask reports, for each cell of the batch, whether it holds a token rather
// than padding.
func (b *Batch) Mask() [][]bool {
	mask := make([][]bool, b.Words.Rows)
	for i := range mask {
		mask[i] = make([]bool, b.Words.Cols)
		for j, id := range b.Words.Row(i) {
			mask[i][j] = id != vocabulary.PadID
		}
	}
	return mask
}
