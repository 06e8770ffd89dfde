// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval scores relation predictions with a weighted micro-averaged
// precision, recall and F1, where the no-relation class counts as a
// negative.
package eval

import (
	"errors"
	"fmt"

	"github.com/nlpodyssey/gorelex/relation"
)

var (
	ErrLengthMismatch  = errors.New("eval: predictions and gold labels differ in length")
	ErrUnknownRelation = errors.New("eval: relation id has no weight")
)

// Counts holds the weighted totals the scores derive from.
type Counts struct {
	Correct float64
	Guessed float64
	Gold    float64
}

type Result struct {
	Counts
	Precision float64
	Recall    float64
	F1        float64
}

// Score compares predictions to gold relation ids. Every pair adds the
// weight of its gold relation, even when the gold relation is
// relation.NoRelationID:
//
//	gold none, guess none: nothing
//	gold none, guess rel:  guessed
//	gold rel,  guess none: gold
//	gold rel,  guess rel:  guessed, gold, and correct if they are equal
//
// A nil weights slice gives every relation a weight of 1. Only gold ids
// index weights, so a predicted id outside it is scored as a wrong guess.
func Score(predictions, gold []int, weights []float64) (Result, error) {
	if len(predictions) != len(gold) {
		return Result{}, fmt.Errorf("%w: %d predictions, %d gold", ErrLengthMismatch, len(predictions), len(gold))
	}

	var c Counts
	for i, g := range gold {
		guess := predictions[i]
		w, err := weightOf(weights, g)
		if err != nil {
			return Result{}, err
		}

		switch {
		case g == relation.NoRelationID && guess == relation.NoRelationID:
		case g == relation.NoRelationID:
			c.Guessed += w
		case guess == relation.NoRelationID:
			c.Gold += w
		default:
			c.Guessed += w
			c.Gold += w
			if g == guess {
				c.Correct += w
			}
		}
	}
	return c.Result(), nil
}

func weightOf(weights []float64, id int) (float64, error) {
	if weights == nil {
		return 1, nil
	}
	if id < 0 || id >= len(weights) {
		return 0, fmt.Errorf("%w: gold %d", ErrUnknownRelation, id)
	}
	return weights[id], nil
}

// Result derives precision, recall and F1 from the counts. Each is 0 when
// its denominator is 0.
func (c Counts) Result() Result {
	r := Result{Counts: c}
	if c.Guessed > 0 {
		r.Precision = c.Correct / c.Guessed
	}
	if c.Gold > 0 {
		r.Recall = c.Correct / c.Gold
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}

// Add accumulates other into c, e.g. to score a dataset batch by batch.
func (c *Counts) Add(other Counts) {
	c.Correct += other.Correct
	c.Guessed += other.Guessed
	c.Gold += other.Gold
}

// UniformWeights returns n weights equal to 1.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func (r Result) String() string {
	return fmt.Sprintf("precision: %.4f, recall: %.4f, f1: %.4f", r.Precision, r.Recall, r.F1)
}
