// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics exposes Prometheus counters for dataset construction.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Discard reasons used as label values.
const (
	ReasonTooLong         = "too_long"
	ReasonNERMismatch     = "ner_mismatch"
	ReasonUnknownRelation = "unknown_relation"
)

type Metrics struct {
	Instances prometheus.Counter
	Discarded *prometheus.CounterVec
	Batches   prometheus.Counter
	Relations *prometheus.CounterVec
}

// New registers the dataset counters on reg. A nil reg creates counters that
// are not registered anywhere.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		Instances: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gorelex",
			Name:      "instances_total",
			Help:      "Instances kept after filtering",
		}),
		Discarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gorelex",
			Name:      "instances_discarded_total",
			Help:      "Instances discarded while filtering",
		}, []string{"reason"}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gorelex",
			Name:      "batches_total",
			Help:      "Batches built",
		}),
		Relations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gorelex",
			Name:      "relation_occurrences_total",
			Help:      "Kept instances by relation label",
		}, []string{"relation"}),
	}
	for _, reason := range []string{ReasonTooLong, ReasonNERMismatch, ReasonUnknownRelation} {
		m.Discarded.WithLabelValues(reason)
	}
	return m
}

func (m *Metrics) ObserveDiscard(reason string) {
	if m == nil {
		return
	}
	m.Discarded.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveInstance(rel string) {
	if m == nil {
		return
	}
	m.Instances.Inc()
	m.Relations.WithLabelValues(rel).Inc()
}

func (m *Metrics) ObserveBatches(n int) {
	if m == nil {
		return
	}
	m.Batches.Add(float64(n))
}
