// Package handler provides the Lambda handler for the translation relay.
package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/pricofy/translation-relay/internal/domain"
	"github.com/pricofy/translation-relay/internal/logger"
	"github.com/pricofy/translation-relay/internal/processor"
)

// BatchProcessor processes the raw records of one S3 event.
type BatchProcessor interface {
	ProcessRaw(ctx context.Context, records []json.RawMessage) []processor.Result
}

// Event is an S3 notification event with its records left undecoded, so
// that one malformed record fails alone instead of the whole event.
type Event struct {
	Records []json.RawMessage `json:"Records"`
}

// Failure describes one record that produced no translation file.
type Failure struct {
	Source string `json:"source"`
	Stage  string `json:"stage"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// Summary is the invocation result. The Lambda runtime only records it;
// the S3 trigger has no caller that reads it.
type Summary struct {
	Received  int       `json:"received"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outputs   []string  `json:"outputs,omitempty"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Handler handles S3 notification events.
type Handler struct {
	proc BatchProcessor
	log  *logger.Logger
}

// New creates a Handler.
func New(proc BatchProcessor, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{proc: proc, log: log}
}

// Handle processes every record of event. Record failures are reported in
// the summary and never fail the invocation, so the returned error is
// always nil.
func (h *Handler) Handle(ctx context.Context, event Event) (*Summary, error) {
	summary := &Summary{Received: len(event.Records)}

	var requestID string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	log := &logger.Logger{Logger: logger.FromContext(ctx, h.log).With().Str("request_id", requestID).Logger()}
	ctx = log.WithContext(ctx)

	// S3 sends a test event without records when notifications are configured
	if len(event.Records) == 0 {
		log.Debug().Msg("event has no records")
		return summary, nil
	}

	for _, res := range h.proc.ProcessRaw(ctx, event.Records) {
		if res.OK() {
			summary.Succeeded++
			summary.Outputs = append(summary.Outputs, res.Destination.String())
			continue
		}

		summary.Failed++
		summary.Failures = append(summary.Failures, Failure{
			Source: res.Source.String(),
			Stage:  string(domain.StageOf(res.Err)),
			Kind:   domain.KindOf(res.Err).String(),
			Error:  res.Err.Error(),
		})
	}

	log.Info().
		Int("received", summary.Received).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("batch processed")

	return summary, nil
}
