// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/nlpodyssey/gorelex/corpusio/tacred"
	"github.com/nlpodyssey/gorelex/vocabulary"
)

var (
	ErrMissingRelations = errors.New("dataset: cross-validation requires a relation vocabulary")
	ErrInvalidDevRatio  = errors.New("dataset: dev ratio must be in [0, 1]")
)

// CrossValidation shuffles a copy of instances, then builds a dev dataset
// from the first ceil(n*devRatio) of them and a test dataset from the rest.
// Both share relations. opts.Shuffle and opts.Verbose are ignored.
func CrossValidation(
	instances []tacred.Instance,
	vocabs Vocabularies,
	relations *vocabulary.Vocabulary,
	devRatio float64,
	opts Options,
) (dev, test *Dataset, err error) {
	if relations == nil {
		return nil, nil, ErrMissingRelations
	}
	if !(devRatio >= 0 && devRatio <= 1) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDevRatio, devRatio)
	}

	shuffled := append([]tacred.Instance(nil), instances...)
	opts.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	devCount := int(math.Ceil(float64(len(shuffled)) * devRatio))

	opts.Shuffle = false
	opts.Verbose = false

	dev, err = New(shuffled[:devCount], vocabs, relations, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error building dev split: %w", err)
	}
	test, err = New(shuffled[devCount:], vocabs, relations, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("error building test split: %w", err)
	}
	return dev, test, nil
}
