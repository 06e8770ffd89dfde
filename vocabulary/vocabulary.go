// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vocabulary maps symbols (words, POS tags, NER tags) to integer ids.
//
// A Vocabulary is immutable once built, so the same value can be shared by
// several datasets (e.g. train, dev and test splits).
package vocabulary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	PadToken = "<PAD>"
	PadID    = 0
	UnkToken = "<UNK>"
	UnkID    = 1
)

// Errors returned while building a Vocabulary.
var (
	ErrNegativeID  = errors.New("vocabulary: negative id")
	ErrDuplicateID = errors.New("vocabulary: id assigned to more than one symbol")
	ErrSparseIDs   = errors.New("vocabulary: ids too sparse")
)

type Vocabulary struct {
	ids     map[string]int
	symbols []string // indexed by id
}

// New returns a Vocabulary where PadToken and UnkToken take the ids 0 and 1,
// followed by the given symbols in order. Repeated symbols are ignored.
func New(symbols ...string) *Vocabulary {
	all := make([]string, 0, len(symbols)+2)
	all = append(all, PadToken, UnkToken)
	all = append(all, symbols...)
	return FromSymbols(all)
}

// FromSymbols assigns increasing ids to the distinct symbols, in order.
func FromSymbols(symbols []string) *Vocabulary {
	v := &Vocabulary{
		ids:     make(map[string]int, len(symbols)),
		symbols: make([]string, 0, len(symbols)),
	}
	for _, s := range symbols {
		if _, ok := v.ids[s]; ok {
			continue
		}
		v.ids[s] = len(v.symbols)
		v.symbols = append(v.symbols, s)
	}
	return v
}

// minIDLimit is the smallest bound on the ids accepted by FromMap.
const minIDLimit = 1024

// FromMap builds a Vocabulary from an explicit symbol to id mapping, which
// must be a bijection over non-negative ids. Ids may leave gaps, but must be
// lower than twice the number of symbols (or minIDLimit, when larger).
func FromMap(m map[string]int) (*Vocabulary, error) {
	limit := max(2*len(m), minIDLimit)
	maxID := -1
	for s, id := range m {
		if id < 0 {
			return nil, fmt.Errorf("%w: %q -> %d", ErrNegativeID, s, id)
		}
		if id >= limit {
			return nil, fmt.Errorf("%w: %q -> %d with %d symbols", ErrSparseIDs, s, id, len(m))
		}
		if id > maxID {
			maxID = id
		}
	}

	v := &Vocabulary{
		ids:     make(map[string]int, len(m)),
		symbols: make([]string, maxID+1),
	}
	seen := make([]bool, maxID+1)
	for s, id := range m {
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		seen[id] = true
		v.ids[s] = id
		v.symbols[id] = s
	}
	return v, nil
}

// Len returns the number of symbols.
func (v *Vocabulary) Len() int {
	return len(v.ids)
}

// Size returns one past the largest id, which is the size of any table
// indexed by id.
func (v *Vocabulary) Size() int {
	return len(v.symbols)
}

func (v *Vocabulary) ID(symbol string) (int, bool) {
	id, ok := v.ids[symbol]
	return id, ok
}

func (v *Vocabulary) Symbol(id int) (string, bool) {
	if id < 0 || id >= len(v.symbols) {
		return "", false
	}
	s := v.symbols[id]
	if got, ok := v.ids[s]; ok && got == id {
		return s, true
	}
	return "", false
}

func (v *Vocabulary) Contains(symbol string) bool {
	_, ok := v.ids[symbol]
	return ok
}

// Symbols returns the symbols sorted by id.
func (v *Vocabulary) Symbols() []string {
	out := make([]string, 0, len(v.ids))
	for s := range v.ids {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return v.ids[out[i]] < v.ids[out[j]]
	})
	return out
}

// Map returns a copy of the symbol to id mapping.
func (v *Vocabulary) Map() map[string]int {
	m := make(map[string]int, len(v.ids))
	for s, id := range v.ids {
		m[s] = id
	}
	return m
}

// MapToIDs converts each token to its id in vocab, or to UnkID when the token
// is not present.
func MapToIDs(tokens []string, vocab *Vocabulary) []int {
	ids := make([]int, len(tokens))
	for i, t := range tokens {
		if id, ok := vocab.ids[t]; ok {
			ids[i] = id
		} else {
			ids[i] = UnkID
		}
	}
	return ids
}

// MapToIDs is a shorthand for MapToIDs(tokens, v).
func (v *Vocabulary) MapToIDs(tokens []string) []int {
	return MapToIDs(tokens, v)
}

func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ids)
}

func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// ReadJSON reads a flat JSON object mapping symbols to ids.
func ReadJSON(r io.Reader) (*Vocabulary, error) {
	var m map[string]int
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("error decoding vocabulary: %w", err)
	}
	return FromMap(m)
}

func LoadJSON(filename string) (*Vocabulary, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}
