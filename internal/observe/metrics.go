// Package observe records game metrics through the OpenTelemetry metrics API. InitProvider
// bridges them to Prometheus so they can be scraped from /metrics.
package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "brainrot-quiz-service"

// Answer results used as the "result" attribute.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
	ResultTimeout   = "timeout"
)

// Metrics holds the instruments. All fields are safe for concurrent use.
type Metrics struct {
	SessionsStarted     metric.Int64Counter
	SessionsFinished    metric.Int64Counter
	Answers             metric.Int64Counter
	AnswerSeconds       metric.Float64Histogram
	CaptureFailures     metric.Int64Counter
	PersistenceFailures metric.Int64Counter
	ActiveSessions      metric.Int64UpDownCounter
}

var answerBuckets = []float64{1, 2, 3, 5, 8, 10, 12, 15}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SessionsStarted, err = m.Int64Counter("quiz.sessions.started",
		metric.WithDescription("Game sessions started, including restarts."),
	); err != nil {
		return nil, err
	}
	if met.SessionsFinished, err = m.Int64Counter("quiz.sessions.finished",
		metric.WithDescription("Game sessions that reached the results screen."),
	); err != nil {
		return nil, err
	}
	if met.Answers, err = m.Int64Counter("quiz.answers",
		metric.WithDescription("Finalized questions by result."),
	); err != nil {
		return nil, err
	}
	if met.AnswerSeconds, err = m.Float64Histogram("quiz.answer.duration",
		metric.WithDescription("Seconds spent on a question before it was finalized."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(answerBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CaptureFailures, err = m.Int64Counter("quiz.capture.failures",
		metric.WithDescription("Speech or text captures that produced no transcript."),
	); err != nil {
		return nil, err
	}
	if met.PersistenceFailures, err = m.Int64Counter("quiz.persistence.failures",
		metric.WithDescription("Remote writes that failed. Use with attribute kind."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("quiz.sessions.active",
		metric.WithDescription("Live game sessions."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Nop returns metrics that record nothing.
func Nop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordAnswer counts a finalized question.
func (m *Metrics) RecordAnswer(ctx context.Context, result string, elapsedSeconds int) {
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.Answers.Add(ctx, 1, attrs)
	m.AnswerSeconds.Record(ctx, float64(elapsedSeconds), attrs)
}

// RecordPersistenceFailure counts a failed remote write of the given kind.
func (m *Metrics) RecordPersistenceFailure(ctx context.Context, kind string) {
	m.PersistenceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// InitProvider installs a global MeterProvider backed by the Prometheus exporter and returns
// metrics bound to it plus a shutdown function.
func InitProvider() (*Metrics, func(context.Context) error, error) {
	exp, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)

	met, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, nil, err
	}
	return met, mp.Shutdown, nil
}
