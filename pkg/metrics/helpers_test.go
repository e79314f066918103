// Copyright 2025 Philipp Hossner
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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounterVec(t *testing.T) {
	registry := prometheus.NewRegistry()

	counter := NewCounterVec(registry, "test_requests_total", "Test requests", []string{"system"})
	require.NotNil(t, counter)

	counter.WithLabelValues("dataplane").Inc()
	counter.WithLabelValues("dataplane").Add(2)
	counter.WithLabelValues("gitlab").Inc()

	assert.Equal(t, float64(3), testutil.ToFloat64(counter.WithLabelValues("dataplane")))
	assert.Equal(t, float64(1), testutil.ToFloat64(counter.WithLabelValues("gitlab")))
}

func TestNewHistogramVec(t *testing.T) {
	registry := prometheus.NewRegistry()

	histogram := NewHistogramVec(registry, "test_duration_seconds", "Test duration", DurationBuckets(), []string{"system"})
	require.NotNil(t, histogram)

	histogram.WithLabelValues("ovh").Observe(0.3)
	histogram.WithLabelValues("ovh").Observe(3)

	assert.Equal(t, 1, testutil.CollectAndCount(histogram))
}

func TestNewGauge(t *testing.T) {
	registry := prometheus.NewRegistry()

	gauge := NewGauge(registry, "test_pending", "Test gauge")
	gauge.Set(4)
	gauge.Dec()

	assert.Equal(t, float64(3), testutil.ToFloat64(gauge))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()

	NewGauge(registry, "test_duplicate", "first")
	assert.Panics(t, func() {
		NewGauge(registry, "test_duplicate", "second")
	})
}

func TestDurationBuckets(t *testing.T) {
	buckets := DurationBuckets()

	require.Len(t, buckets, 9)
	assert.Equal(t, 0.01, buckets[0])
	assert.Equal(t, 10.0, buckets[len(buckets)-1])
	for i := 1; i < len(buckets); i++ {
		assert.Greater(t, buckets[i], buckets[i-1])
	}
}
