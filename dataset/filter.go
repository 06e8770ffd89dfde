// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"strings"

	"github.com/nlpodyssey/gorelex/corpusio/tacred"
	"github.com/nlpodyssey/gorelex/metrics"
	"github.com/nlpodyssey/gorelex/position"
	"github.com/nlpodyssey/gorelex/vocabulary"
)

// DiscardStats counts the instances excluded while filtering, by reason.
type DiscardStats struct {
	TooLong         int
	NERMismatch     int
	UnknownRelation int
}

func (d DiscardStats) Total() int {
	return d.TooLong + d.NERMismatch + d.UnknownRelation
}

// Anonymize returns a copy of tokens where the subject and object spans are
// replaced by placeholders: "SUBJ-<type>" and "OBJ-<type>" when withType is
// set, "SUBJ-O" and "OBJ-O" otherwise. The object is written last, so it
// wins where the spans overlap.
func Anonymize(tokens []string, in *tacred.Instance, withType bool) []string {
	subj, obj := "SUBJ-O", "OBJ-O"
	if withType {
		subj = "SUBJ-" + in.SubjType
		obj = "OBJ-" + in.ObjType
	}

	out := append([]string(nil), tokens...)
	for i := in.SubjStart; i <= in.SubjEnd; i++ {
		out[i] = subj
	}
	for i := in.ObjStart; i <= in.ObjEnd; i++ {
		out[i] = obj
	}
	return out
}

func lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// filter turns raw instances into examples. It never modifies the
// instances; rejected ones are only counted.
type filter struct {
	opts      Options
	vocabs    Vocabularies
	relations *vocabulary.Vocabulary

	discarded DiscardStats
	relCounts []int
}

func newFilter(opts Options, vocabs Vocabularies, relations *vocabulary.Vocabulary) *filter {
	return &filter{
		opts:      opts,
		vocabs:    vocabs,
		relations: relations,
		relCounts: make([]int, relations.Size()),
	}
}

// encode returns the example for in, or ok == false when in is discarded.
// The only error is an entity span outside the token sequence, reported
// for instances that pass every discard check.
func (f *filter) encode(in *tacred.Instance) (ex Example, ok bool, err error) {
	l := len(in.Token)
	if l > f.opts.MaxLen {
		f.discard(&f.discarded.TooLong, metrics.ReasonTooLong)
		return ex, false, nil
	}
	if l != len(in.StanfordNER) {
		f.discard(&f.discarded.NERMismatch, metrics.ReasonNERMismatch)
		return ex, false, nil
	}
	rel, found := f.relations.ID(in.Relation)
	if !found {
		f.discard(&f.discarded.UnknownRelation, metrics.ReasonUnknownRelation)
		return ex, false, nil
	}
	if err := in.Validate(); err != nil {
		return ex, false, err
	}

	tokens := in.Token
	if f.opts.Lower {
		tokens = lower(tokens)
	}
	if f.opts.UseMask {
		tokens = Anonymize(tokens, in, f.opts.MaskWithType)
	}

	f.relCounts[rel]++
	f.opts.Metrics.ObserveInstance(in.Relation)

	ex = Example{
		Words:         vocabulary.MapToIDs(tokens, f.vocabs.Words),
		POS:           vocabulary.MapToIDs(in.StanfordPOS, f.vocabs.POS),
		NER:           vocabulary.MapToIDs(in.StanfordNER, f.vocabs.NER),
		SubjPositions: position.Positions(in.SubjStart, in.SubjEnd, l),
		ObjPositions:  position.Positions(in.ObjStart, in.ObjEnd, l),
		Relation:      rel,
	}
	return ex, true, nil
}

func (f *filter) discard(counter *int, reason string) {
	*counter++
	f.opts.Metrics.ObserveDiscard(reason)
}
