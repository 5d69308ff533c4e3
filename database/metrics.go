/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/uptrace/bun"
)

// Transaction outcomes recorded by RecordTransaction.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeFailed     = "failed"
)

var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cornerstone_query_duration_seconds",
			Help:    "Duration of statements executed through bun",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"system", "operation", "status"},
	)

	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cornerstone_transactions_total",
			Help: "Total number of units of work by entity, operation and outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)
)

// MetricsHook observes statement durations.
type MetricsHook struct {
	system string
}

var _ bun.QueryHook = (*MetricsHook)(nil)

// NewMetricsHook returns a hook labelling observations with system.
func NewMetricsHook(system string) *MetricsHook {
	return &MetricsHook{system: normalizeMetricLabel(system, "unknown")}
}

func (h *MetricsHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *MetricsHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	status := "ok"
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		status = "error"
	}
	queryDuration.WithLabelValues(
		h.system,
		normalizeMetricLabel(strings.ToLower(event.Operation()), "unknown"),
		status,
	).Observe(time.Since(event.StartTime).Seconds())
}

// RecordTransaction counts one finished unit of work.
func RecordTransaction(entity, operation, outcome string) {
	transactionsTotal.WithLabelValues(
		normalizeMetricLabel(entity, "unknown"),
		normalizeMetricLabel(operation, "unknown"),
		normalizeMetricLabel(outcome, "unknown"),
	).Inc()
}

// TransactionCounter exposes the counter for one label set, mainly for tests.
func TransactionCounter(entity, operation, outcome string) prometheus.Counter {
	return transactionsTotal.WithLabelValues(
		normalizeMetricLabel(entity, "unknown"),
		normalizeMetricLabel(operation, "unknown"),
		normalizeMetricLabel(outcome, "unknown"),
	)
}

func normalizeMetricLabel(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
