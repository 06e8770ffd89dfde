// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import "github.com/nlpodyssey/gorelex/vocabulary"

// Matrix is a dense row-major matrix of ids.
type Matrix struct {
	Rows int
	Cols int
	Data []int
}

// NewMatrix returns a rows x cols matrix filled with vocabulary.PadID.
func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{
		Rows: rows,
		Cols: cols,
		Data: make([]int, rows*cols),
	}
	for i := range m.Data {
		m.Data[i] = vocabulary.PadID
	}
	return m
}

func (m *Matrix) At(i, j int) int {
	return m.Data[i*m.Cols+j]
}

// Row returns the i-th row. The slice shares memory with the matrix.
func (m *Matrix) Row(i int) []int {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// SetRow copies values into the i-th row, truncating them to the matrix
// width.
func (m *Matrix) SetRow(i int, values []int) {
	copy(m.Row(i), values)
}

// ToSlices returns a copy of the matrix as a slice of rows.
func (m *Matrix) ToSlices() [][]int {
	out := make([][]int, m.Rows)
	for i := range out {
		out[i] = append([]int(nil), m.Row(i)...)
	}
	return out
}
