// Package main is the entry point for the translation relay Lambda function.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"

	"github.com/pricofy/translation-relay/internal/config"
	"github.com/pricofy/translation-relay/internal/handler"
	"github.com/pricofy/translation-relay/internal/logger"
	"github.com/pricofy/translation-relay/internal/processor"
	"github.com/pricofy/translation-relay/internal/storage"
	"github.com/pricofy/translation-relay/internal/translator"
)

const role = "translation-relay"

type app struct {
	handler *handler.Handler
	warmer  *Warmer
	log     *logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(role, "info").Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	log := logger.NewLogger(role, cfg.LogLevel)

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS config")
		os.Exit(1)
	}

	proc, err := processor.New(
		storage.NewFromConfig(awsCfg),
		translator.NewFromConfig(awsCfg),
		processor.Options{
			ResponseBucket:        cfg.ResponseBucket,
			DefaultTargetLanguage: cfg.DefaultTargetLanguage,
		},
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create processor")
		os.Exit(1)
	}

	a := &app{
		handler: handler.New(proc, log),
		warmer:  NewWarmer(lambdasdk.NewFromConfig(awsCfg), cfg.FunctionName, log),
		log:     log,
	}

	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	// records stay raw here and are decoded one by one by the processor
	var s3Event handler.Event
	if err := json.Unmarshal(event, &s3Event); err != nil {
		// a redelivery would fail the same way
		a.log.Error().Err(err).Msg("event is not an S3 notification")
		return &handler.Summary{}, nil
	}

	return a.handler.Handle(ctx, s3Event)
}
