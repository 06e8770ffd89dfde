// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"github.com/nlpodyssey/gorelex/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreEmpty(t *testing.T) {
	r, err := Score(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Precision)
	assert.Equal(t, 0.0, r.Recall)
	assert.Equal(t, 0.0, r.F1)
}

func TestScoreNoRelationOnly(t *testing.T) {
	for _, w := range [][]float64{nil, {0}, {3.5}, {1, 2}} {
		r, err := Score([]int{relation.NoRelationID}, []int{relation.NoRelationID}, w)
		require.NoError(t, err)
		assert.Equal(t, Result{}, r)
	}
}

func TestScoreWeightedByGold(t *testing.T) {
	r, err := Score([]int{1, 0}, []int{1, 1}, []float64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, 2.0, r.Guessed)
	assert.Equal(t, 4.0, r.Gold)
	assert.Equal(t, 2.0, r.Correct)
	assert.Equal(t, 1.0, r.Precision)
	assert.Equal(t, 0.5, r.Recall)
	assert.InDelta(t, 2.0/3.0, r.F1, 1e-9)
}

func TestScoreFalsePositiveUsesNoRelationWeight(t *testing.T) {
	// gold is no_relation: the guessed count grows by the weight of
	// no_relation, not by the weight of the predicted relation.
	r, err := Score([]int{2, 2}, []int{0, 2}, []float64{0.5, 1, 10})
	require.NoError(t, err)

	assert.Equal(t, 10.5, r.Guessed)
	assert.Equal(t, 10.0, r.Gold)
	assert.Equal(t, 10.0, r.Correct)
	assert.InDelta(t, 10.0/10.5, r.Precision, 1e-9)
	assert.Equal(t, 1.0, r.Recall)
}

func TestScoreWrongRelation(t *testing.T) {
	r, err := Score([]int{2, 1, 0}, []int{1, 1, 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, Counts{Correct: 1, Guessed: 2, Gold: 3}, r.Counts)
	assert.Equal(t, 0.5, r.Precision)
	assert.InDelta(t, 1.0/3.0, r.Recall, 1e-9)
	assert.InDelta(t, 0.4, r.F1, 1e-9)
}

func TestScoreErrors(t *testing.T) {
	_, err := Score([]int{1}, []int{1, 0}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Score([]int{1}, []int{3}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrUnknownRelation)

}

func TestScorePredictionOutsideWeights(t *testing.T) {
	r, err := Score([]int{2}, []int{0}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, Counts{Guessed: 1}, r.Counts)

	r, err = Score([]int{5}, []int{1}, []float64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, Counts{Guessed: 3, Gold: 3}, r.Counts)
	assert.Equal(t, 0.0, r.F1)
}

func TestCountsAdd(t *testing.T) {
	var total Counts
	total.Add(Counts{Correct: 1, Guessed: 2, Gold: 2})
	total.Add(Counts{Correct: 1, Guessed: 1, Gold: 3})

	r := total.Result()
	assert.Equal(t, 2.0/3.0, r.Precision)
	assert.Equal(t, 0.4, r.Recall)
	assert.Equal(t, "precision: 0.6667, recall: 0.4000, f1: 0.5000", r.String())
}

func TestUniformWeights(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, UniformWeights(3))
}
