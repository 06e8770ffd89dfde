// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset turns TACRED-style instances into padded batches ready for
// a relation classifier, and reports relation frequency statistics.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/nlpodyssey/gorelex/batch"
	"github.com/nlpodyssey/gorelex/configuration"
	"github.com/nlpodyssey/gorelex/corpusio/tacred"
	"github.com/nlpodyssey/gorelex/metrics"
	"github.com/nlpodyssey/gorelex/relation"
	"github.com/nlpodyssey/gorelex/vocabulary"
)

// Example is an encoded instance: word, POS and NER ids, subject and object
// relative positions, and the relation id.
type Example = batch.Sequences

var ErrMissingWordVocabulary = errors.New("dataset: missing word vocabulary")

// Vocabularies holds the symbol vocabularies used to encode instances. A nil
// POS or NER vocabulary stands for the built-in tag set.
type Vocabularies struct {
	Words *vocabulary.Vocabulary
	POS   *vocabulary.Vocabulary
	NER   *vocabulary.Vocabulary
}

func (v Vocabularies) withDefaults() (Vocabularies, error) {
	if v.Words == nil {
		return v, ErrMissingWordVocabulary
	}
	if v.POS == nil {
		v.POS = vocabulary.DefaultPOS()
	}
	if v.NER == nil {
		v.NER = vocabulary.DefaultNER()
	}
	return v, nil
}

type Options struct {
	BatchSize    int
	MaxLen       int
	Lower        bool
	UseMask      bool
	MaskWithType bool
	Shuffle      bool
	// Rand is used for shuffling. When nil, the process-wide math/rand
	// source is used.
	Rand    *rand.Rand
	Verbose bool
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func OptionsFromConfiguration(c *configuration.Configuration) Options {
	return Options{
		BatchSize:    c.BatchSize,
		MaxLen:       c.MaxLen,
		Lower:        c.Lower,
		UseMask:      c.UseMask,
		MaskWithType: c.MaskWithType,
		Shuffle:      c.Shuffle,
		Rand:         c.Rand(),
		Verbose:      c.Verbose,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) shuffle(n int, swap func(i, j int)) {
	if o.Rand != nil {
		o.Rand.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

type Dataset struct {
	id           uuid.UUID
	batches      []*batch.Batch
	relations    *vocabulary.Vocabulary
	distribution []float64
	logPrior     []float64
	discarded    DiscardStats
	size         int
}

// New filters, encodes and batches instances.
//
// When relations is nil the relation vocabulary is built from instances;
// datasets meant to be evaluated against a training set must instead be
// given the training vocabulary. The instances are never modified.
func New(instances []tacred.Instance, vocabs Vocabularies, relations *vocabulary.Vocabulary, opts Options) (*Dataset, error) {
	vocabs, err := vocabs.withDefaults()
	if err != nil {
		return nil, err
	}
	if relations == nil {
		relations = relation.BuildVocabularyFromInstances(instances)
	}
	if relations.Len() == 0 {
		return nil, relation.ErrEmptyVocabulary
	}
	if opts.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", batch.ErrInvalidBatchSize, opts.BatchSize)
	}
	if opts.MaxLen <= 0 {
		return nil, fmt.Errorf("%w: %d", batch.ErrInvalidMaxLen, opts.MaxLen)
	}

	order := make([]int, len(instances))
	for i := range order {
		order[i] = i
	}
	if opts.Shuffle {
		opts.shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	f := newFilter(opts, vocabs, relations)
	examples := make([]Example, 0, len(instances))
	for _, idx := range order {
		ex, ok, err := f.encode(&instances[idx])
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", idx, err)
		}
		if ok {
			examples = append(examples, ex)
		}
	}

	batches, err := batch.Build(examples, opts.BatchSize, opts.MaxLen)
	if err != nil {
		return nil, err
	}
	opts.Metrics.ObserveBatches(len(batches))

	d := &Dataset{
		id:        uuid.New(),
		batches:   batches,
		relations: relations,
		discarded: f.discarded,
		size:      len(examples),
	}
	d.distribution, d.logPrior = relation.Statistics(f.relCounts)

	if opts.Verbose {
		opts.logger().Info("dataset built",
			"dataset_id", d.id,
			"discarded", d.Discarded(),
			"instances", d.size,
			"batches", len(d.batches))
	}
	return d, nil
}

// ID identifies the dataset in logs.
func (d *Dataset) ID() uuid.UUID {
	return d.id
}

func (d *Dataset) Batches() []*batch.Batch {
	return d.batches
}

func (d *Dataset) NumBatches() int {
	return len(d.batches)
}

// Size returns the number of instances kept after filtering.
func (d *Dataset) Size() int {
	return d.size
}

func (d *Dataset) RelationVocabulary() *vocabulary.Vocabulary {
	return d.relations
}

// Distribution returns the empirical relation distribution, indexed by
// relation id.
func (d *Dataset) Distribution() []float64 {
	return d.distribution
}

// LogPrior returns the relation log counts shifted so that the largest is
// 0, indexed by relation id.
func (d *Dataset) LogPrior() []float64 {
	return d.logPrior
}

func (d *Dataset) Discarded() int {
	return d.discarded.Total()
}

func (d *Dataset) DiscardStats() DiscardStats {
	return d.discarded
}

// Labels returns the relation ids of the kept instances in the order they
// were batched.
func (d *Dataset) Labels() []int {
	labels := make([]int, 0, d.size)
	for _, b := range d.batches {
		labels = append(labels, b.Labels()...)
	}
	return labels
}
