// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmobj

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "osmobj"

// Metrics counts what a Resolver does.  A nil *Metrics records nothing.
type Metrics struct {
	Resolved          *prometheus.CounterVec
	MissingReferences prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
}

// NewMetrics creates the resolver metrics and registers them with reg.  A
// nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Resolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolved_total",
				Help:      "Total number of entities resolved",
			},
			[]string{"kind", "status"},
		),
		MissingReferences: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "missing_references_total",
				Help:      "Total number of references that could not be resolved",
			},
		),
		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "way_cache_hits_total",
				Help:      "Total number of way paths served from the cache",
			},
		),
		CacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "way_cache_misses_total",
				Help:      "Total number of way paths resolved from the index",
			},
		),
	}
}

func (m *Metrics) recordResult(r Result) {
	if m == nil {
		return
	}

	m.Resolved.WithLabelValues(r.Kind.String(), r.Status.String()).Inc()
}

func (m *Metrics) recordMissing(n int) {
	if m == nil || n == 0 {
		return
	}

	m.MissingReferences.Add(float64(n))
}

func (m *Metrics) recordCache(hit bool) {
	if m == nil {
		return
	}

	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}
