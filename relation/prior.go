// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relation

import "math"

// Statistics computes, from per-relation counts indexed by relation id, the
// empirical distribution and the log prior.
//
// The log prior holds log(count) shifted so that its maximum is 0. Relations
// with no occurrences get a raw value of 0, the same as a single occurrence.
// It is meant to bias raw model scores and is not normalized.
//
// When all counts are zero both slices are all zeros.
func Statistics(counts []int) (distribution, logPrior []float64) {
	distribution = make([]float64, len(counts))
	logPrior = make([]float64, len(counts))
	if len(counts) == 0 {
		return
	}

	total := 0
	for id, c := range counts {
		if c > 0 {
			distribution[id] = float64(c)
			logPrior[id] = math.Log(float64(c))
			total += c
		}
	}
	if total == 0 {
		return
	}

	maxLog := logPrior[0]
	for _, v := range logPrior[1:] {
		if v > maxLog {
			maxLog = v
		}
	}
	for id := range logPrior {
		logPrior[id] -= maxLog
		distribution[id] /= float64(total)
	}
	return
}

// Softmax turns log scores into probabilities.
func Softmax(logits []float64) []float64 {
	probs := make([]float64, len(logits))
	if len(logits) == 0 {
		return probs
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		maxLogit = math.Max(maxLogit, v)
	}
	sum := 0.0
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// PositiveSoftmax is Softmax restricted to the relations other than
// NoRelation. The result has one element less than logits.
func PositiveSoftmax(logits []float64) []float64 {
	if len(logits) <= NoRelationID+1 {
		return []float64{}
	}
	return Softmax(logits[NoRelationID+1:])
}
