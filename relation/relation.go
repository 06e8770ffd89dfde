// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package relation builds and persists the relation label space, and derives
// class-frequency statistics from relation counts.
package relation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nlpodyssey/gorelex/corpusio/tacred"
	"github.com/nlpodyssey/gorelex/vocabulary"
)

const (
	NoRelation   = "no_relation"
	NoRelationID = 0
)

var ErrEmptyVocabulary = errors.New("relation: empty relation vocabulary")

// BuildVocabulary assigns ids to the distinct labels in first-seen order,
// with NoRelation always taking id 0.
func BuildVocabulary(labels []string) *vocabulary.Vocabulary {
	symbols := make([]string, 0, len(labels)+1)
	symbols = append(symbols, NoRelation)
	symbols = append(symbols, labels...)
	return vocabulary.FromSymbols(symbols)
}

// BuildVocabularyFromInstances builds the relation vocabulary of a training
// pool. Dev and test datasets must reuse it rather than building their own.
func BuildVocabularyFromInstances(instances []tacred.Instance) *vocabulary.Vocabulary {
	labels := make([]string, len(instances))
	for i, in := range instances {
		labels[i] = in.Relation
	}
	v := BuildVocabulary(labels)
	slog.Debug("built relation vocabulary", "relations", v.Symbols())
	return v
}

// LoadVocabulary reads a flat JSON relation to id mapping.
func LoadVocabulary(filename string) (*vocabulary.Vocabulary, error) {
	v, err := vocabulary.LoadJSON(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading relation vocabulary: %w", err)
	}
	if v.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyVocabulary)
	}
	return v, nil
}

// ReadVocabulary is like LoadVocabulary, reading the mapping from r.
func ReadVocabulary(r io.Reader) (*vocabulary.Vocabulary, error) {
	v, err := vocabulary.ReadJSON(r)
	if err != nil {
		return nil, fmt.Errorf("error reading relation vocabulary: %w", err)
	}
	if v.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}
	return v, nil
}

// SaveVocabulary writes v as a flat JSON mapping, creating the parent
// directory when it does not exist.
func SaveVocabulary(filename string, v *vocabulary.Vocabulary) error {
	if err := ensureDir(filepath.Dir(filename)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v.Map(), "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding relation vocabulary: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("error writing relation vocabulary: %w", err)
	}
	return nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	slog.Info("creating missing directory", "dir", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	return nil
}
