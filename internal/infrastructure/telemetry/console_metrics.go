package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ConsoleMetrics records gateway traffic and console workflow outcomes.
// A nil *ConsoleMetrics records nothing.
type ConsoleMetrics struct {
	gatewayCalls    *Counter
	gatewayDuration *Histogram
	pricingPreviews *Counter
	pricingConfirms *Counter
	uploads         *Counter
	draftsSubmitted *Counter
}

// NewConsoleMetrics registers the console instruments on meter
func NewConsoleMetrics(meter metric.Meter) (*ConsoleMetrics, error) {
	var (
		m   ConsoleMetrics
		err error
	)
	if m.gatewayCalls, err = NewCounter(meter, "console.gateway.calls", "GraphQL operations sent to the booking API", "{call}"); err != nil {
		return nil, err
	}
	if m.gatewayDuration, err = NewHistogram(meter, "console.gateway.duration", "GraphQL operation latency",
		0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10); err != nil {
		return nil, err
	}
	if m.pricingPreviews, err = NewCounter(meter, "console.pricing.previews", "Pre-booking pricing previews requested", "{preview}"); err != nil {
		return nil, err
	}
	if m.pricingConfirms, err = NewCounter(meter, "console.pricing.confirms", "Pricing previews confirmed into a job", "{confirm}"); err != nil {
		return nil, err
	}
	if m.uploads, err = NewCounter(meter, "console.uploads", "Image uploads", "{upload}"); err != nil {
		return nil, err
	}
	if m.draftsSubmitted, err = NewCounter(meter, "console.drafts.submitted", "Form drafts submitted", "{draft}"); err != nil {
		return nil, err
	}
	return &m, nil
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}

// RecordGatewayCall records one GraphQL operation
func (m *ConsoleMetrics) RecordGatewayCall(ctx context.Context, op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("operation", op), outcome(err)}
	m.gatewayCalls.Inc(ctx, attrs...)
	m.gatewayDuration.RecordDuration(ctx, d, attrs...)
}

// RecordPricingPreview records a pre-booking request
func (m *ConsoleMetrics) RecordPricingPreview(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.pricingPreviews.Inc(ctx, outcome(err))
}

// RecordPricingConfirm records a confirmed preview
func (m *ConsoleMetrics) RecordPricingConfirm(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.pricingConfirms.Inc(ctx, outcome(err))
}

// RecordUpload records an image upload
func (m *ConsoleMetrics) RecordUpload(ctx context.Context, target string, err error) {
	if m == nil {
		return
	}
	m.uploads.Inc(ctx, attribute.String("target", target), outcome(err))
}

// RecordDraftSubmitted records a submitted draft
func (m *ConsoleMetrics) RecordDraftSubmitted(ctx context.Context, kind string, err error) {
	if m == nil {
		return
	}
	m.draftsSubmitted.Inc(ctx, attribute.String("kind", kind), outcome(err))
}
