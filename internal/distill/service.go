package distill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
	"github.com/fyrsmithlabs/jsondistill/internal/secrets"
	"github.com/fyrsmithlabs/jsondistill/internal/telemetry"
)

const (
	tracerName = "github.com/fyrsmithlabs/jsondistill/internal/distill"
	meterName  = "distill"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Limits bound the documents accepted by DistillBytes.
	Limits jsontree.Limits
	// Scrubber redacts secrets before distillation. Nil disables scrubbing.
	Scrubber secrets.Scrubber
	// Logger receives run logs. Nil discards them.
	Logger *zap.Logger
	// Telemetry supplies the tracer and meter. Nil uses the global providers.
	Telemetry *telemetry.Telemetry
}

// Result is the outcome of a Service run.
type Result struct {
	RunID string
	// Output is the indented JSON encoding of the distilled document.
	Output []byte
	// Value is the distilled document.
	Value   jsontree.Value
	Stats   Stats
	Secrets *secrets.Report
}

// Service runs distillations for the CLI, HTTP and MCP front ends. It is
// safe for concurrent use; every call gets its own run state.
type Service struct {
	limits   jsontree.Limits
	scrubber secrets.Scrubber
	logger   *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	runCounter   metric.Int64Counter
	runDuration  metric.Float64Histogram
	outputBytes  metric.Int64Histogram
	runErrors    metric.Int64Counter
	shapeCounter metric.Int64Histogram
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	s := &Service{
		limits:   cfg.Limits,
		scrubber: cfg.Scrubber,
		logger:   cfg.Logger,
		tracer:   cfg.Telemetry.Tracer(tracerName),
		meter:    cfg.Telemetry.Meter(meterName),
	}
	if s.scrubber == nil {
		s.scrubber = secrets.NoopScrubber{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return s, nil
}

// DistillBytes parses data, scrubs it if configured, and distills it.
func (s *Service) DistillBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "distill.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("input_bytes", len(data)),
			attribute.Bool("strict_typing", opts.StrictTyping),
			attribute.Bool("position_dependent", opts.PositionDependent),
			attribute.Int("repeat_threshold", opts.RepeatThreshold),
		),
	)
	defer span.End()

	log := s.logger.With(zap.String("run_id", runID))
	start := time.Now()

	result, err := s.distillBytes(ctx, data, opts)
	RunsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.runErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", resultLabel(err))))
		log.Warn("distillation failed",
			zap.Int("input_bytes", len(data)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	result.RunID = runID

	elapsed := time.Since(start)
	attrs := metric.WithAttributes(attribute.Bool("position_dependent", opts.PositionDependent))
	s.runCounter.Add(ctx, 1, attrs)
	s.runDuration.Record(ctx, elapsed.Seconds(), attrs)
	s.outputBytes.Record(ctx, int64(len(result.Output)), attrs)
	s.shapeCounter.Record(ctx, int64(result.Stats.UniqueShapes), attrs)

	InputBytes.Observe(float64(len(data)))
	if len(result.Output) > 0 {
		ReductionRatio.Observe(float64(len(data)) / float64(len(result.Output)))
	}
	FoldedItemsTotal.Add(float64(result.Stats.FoldedItems))
	for rule, n := range result.Secrets.ByRule {
		SecretsRedactedTotal.WithLabelValues(rule).Add(float64(n))
	}

	span.SetAttributes(
		attribute.Int("output_bytes", len(result.Output)),
		attribute.Int("unique_shapes", result.Stats.UniqueShapes),
		attribute.Int("folded_items", result.Stats.FoldedItems),
		attribute.Int("secrets_redacted", result.Secrets.TotalFindings),
	)
	log.Info("distillation completed",
		zap.Int("input_bytes", len(data)),
		zap.Int("output_bytes", len(result.Output)),
		zap.Int("unique_shapes", result.Stats.UniqueShapes),
		zap.Int("representatives", result.Stats.Representatives),
		zap.Int("folded_items", result.Stats.FoldedItems),
		zap.Int("secrets_redacted", result.Secrets.TotalFindings),
		zap.Duration("duration", elapsed),
	)
	return result, nil
}

func (s *Service) distillBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	doc, err := s.parse(ctx, data)
	if err != nil {
		return nil, err
	}

	doc, report := s.scrubber.ScrubValue(doc)
	if report.HasFindings() {
		trace.SpanFromContext(ctx).AddEvent("secrets.redacted",
			trace.WithAttributes(attribute.StringSlice("rules", report.RuleIDs())))
	}

	out, stats, err := DistillWithStats(doc, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Output:  jsontree.EncodeIndent(out),
		Value:   out,
		Stats:   stats,
		Secrets: report,
	}, nil
}

// Fingerprint returns the fingerprint and canonical shape text of the
// document's root.
func (s *Service) Fingerprint(ctx context.Context, data []byte, strictTyping bool) (string, string, error) {
	ctx, span := s.tracer.Start(ctx, "distill.fingerprint",
		trace.WithAttributes(attribute.Int("input_bytes", len(data))))
	defer span.End()

	doc, err := s.parse(ctx, data)
	if err != nil {
		span.RecordError(err)
		return "", "", err
	}
	k, err := KeyOf(doc, strictTyping)
	if err != nil {
		span.RecordError(err)
		return "", "", err
	}
	fp := Fingerprint(k)
	span.SetAttributes(attribute.String("fingerprint", fp))
	return fp, k.Repr(), nil
}

func (s *Service) parse(ctx context.Context, data []byte) (jsontree.Value, error) {
	_, span := s.tracer.Start(ctx, "distill.parse")
	defer span.End()

	doc, err := jsontree.Parse(data, s.limits)
	if err != nil {
		return jsontree.Value{}, &Error{Kind: KindInvalidInput, Op: "parse", Err: err}
	}
	return doc, nil
}

// IsParseError reports whether err came from parsing the input document.
func IsParseError(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Op == "parse"
}

func (s *Service) initMetrics() error {
	var err error

	s.runCounter, err = s.meter.Int64Counter(
		"distill.runs_total",
		metric.WithDescription("Total number of successful distillation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create run counter: %w", err)
	}

	s.runDuration, err = s.meter.Float64Histogram(
		"distill.duration_seconds",
		metric.WithDescription("Time spent distilling documents"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	s.outputBytes, err = s.meter.Int64Histogram(
		"distill.output_bytes",
		metric.WithDescription("Size of distilled output"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create output size histogram: %w", err)
	}

	s.shapeCounter, err = s.meter.Int64Histogram(
		"distill.unique_shapes",
		metric.WithDescription("Distinct list element shapes per document"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create shape histogram: %w", err)
	}

	s.runErrors, err = s.meter.Int64Counter(
		"distill.errors_total",
		metric.WithDescription("Total number of failed distillation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	return nil
}
