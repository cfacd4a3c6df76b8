// Package main contains the Lambda warmup handler for preventing cold starts.
// A scheduled EventBridge rule sends {"source":"warmup","concurrency":N} so
// that N+1 instances are initialized before the next file drop.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/pricofy/translation-relay/internal/logger"
)

const (
	// WarmupSource identifies warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the
	// self-invocations to land on other instances.
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps self-invocations per warmup event.
	MaxWarmupConcurrency = 50
)

// WarmupEvent is the scheduled warmup payload.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup events.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the subset of the Lambda API client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer answers warmup events.
type Warmer struct {
	invoker      Invoker
	functionName string
	delay        time.Duration
	log          *logger.Logger
}

// NewWarmer creates a Warmer that self-invokes functionName.
func NewWarmer(invoker Invoker, functionName string, log *logger.Logger) *Warmer {
	return &Warmer{
		invoker:      invoker,
		functionName: functionName,
		delay:        WarmupDelay,
		log:          log,
	}
}

// IsWarmupEvent reports whether the raw event is a warmup ping. S3 events
// have no top-level "source" field, so they never match.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}

	return &warmup, true
}

// Handle answers a warmup event, self-invoking the function
// warmup.Concurrency times first.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) (*WarmupResponse, error) {
	instancesWarmed := 1 // this instance

	count := min(warmup.Concurrency, MaxWarmupConcurrency)
	if count > 0 {
		invoked, err := w.selfInvoke(ctx, count)
		if err != nil {
			w.log.Warn().Err(err).Int("requested", count).Int("invoked", invoked).Msg("warmup self-invoke failed")
		}
		instancesWarmed += invoked
	}

	time.Sleep(w.delay)

	w.log.Debug().Int("instances", instancesWarmed).Msg("warm")

	return &WarmupResponse{Status: "warm", InstancesWarmed: instancesWarmed}, nil
}

// selfInvoke invokes this function count times asynchronously and returns
// how many invocations were accepted.
func (w *Warmer) selfInvoke(ctx context.Context, count int) (int, error) {
	if w.functionName == "" {
		return 0, errors.New("function name is not set")
	}

	// children get concurrency 0 so they do not fan out again
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return 0, err
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		invoked   int
		invokeErr error
	)

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if invokeErr == nil {
					invokeErr = err
				}
				return
			}
			invoked++
		}()
	}

	wg.Wait()
	return invoked, invokeErr
}
