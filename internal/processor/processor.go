// Package processor turns S3 object notifications for request files into
// stored translation files.
//
// Each notification is handled on its own: fetch the request file, parse
// it, translate every text in order, derive the output key and store the
// response. The first failure abandons that notification without writing
// anything; the other notifications of the batch are still processed.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"

	"github.com/pricofy/translation-relay/internal/domain"
	"github.com/pricofy/translation-relay/internal/logger"
)

// ContentType of stored translation files.
const ContentType = "application/json; charset=utf-8"

// DefaultTargetLanguage is used when Options leaves it empty.
const DefaultTargetLanguage = "de"

// Options configures a Processor.
type Options struct {
	// ResponseBucket receives every translation file.
	ResponseBucket string
	// DefaultTargetLanguage replaces a missing TargetLanguageCode.
	DefaultTargetLanguage string
}

// Processor relays request files through the translator.
type Processor struct {
	store      ObjectStore
	translator TextTranslator
	opts       Options
	log        *logger.Logger
}

// Result is the outcome of processing one notification.
type Result struct {
	Source      domain.Location
	Destination domain.Location
	// Translated is the number of texts in the stored response.
	Translated int
	// Err is nil on success and a *domain.Error otherwise.
	Err error
}

// OK reports whether the response was stored.
func (r Result) OK() bool {
	return r.Err == nil
}

// New creates a Processor.
func New(store ObjectStore, translator TextTranslator, opts Options, log *logger.Logger) (*Processor, error) {
	if store == nil || translator == nil {
		return nil, errors.New("processor: store and translator are required")
	}
	if opts.ResponseBucket == "" {
		return nil, errors.New("processor: response bucket is required")
	}
	if opts.DefaultTargetLanguage == "" {
		opts.DefaultTargetLanguage = DefaultTargetLanguage
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Processor{
		store:      store,
		translator: translator,
		opts:       opts,
		log:        log,
	}, nil
}

// DecodeRecord decodes one raw notification record. aws-lambda-go unescapes
// the form-encoded object key while decoding, so a bad escape fails here.
// On failure the returned location holds whatever bucket and key could be
// read, for logging.
func DecodeRecord(raw json.RawMessage) (events.S3EventRecord, domain.Location, error) {
	var record events.S3EventRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		var partial struct {
			S3 struct {
				Bucket struct {
					Name string `json:"name"`
				} `json:"bucket"`
				Object struct {
					Key string `json:"key"`
				} `json:"object"`
			} `json:"s3"`
		}
		_ = json.Unmarshal(raw, &partial)

		return events.S3EventRecord{},
			domain.Location{Bucket: partial.S3.Bucket.Name, Key: partial.S3.Object.Key},
			&domain.Error{
				Stage: domain.StageLocate,
				Kind:  domain.KindMalformedNotification,
				Err:   fmt.Errorf("failed to decode notification: %w", err),
			}
	}

	loc, err := Locate(record)
	return record, loc, err
}

// Locate returns the object a decoded notification refers to, using the
// URL-decoded key.
func Locate(record events.S3EventRecord) (domain.Location, error) {
	bucket := record.S3.Bucket.Name
	key := record.S3.Object.URLDecodedKey
	if bucket == "" || key == "" {
		return domain.Location{Bucket: bucket, Key: record.S3.Object.Key}, &domain.Error{
			Stage: domain.StageLocate,
			Kind:  domain.KindMalformedNotification,
			Err:   fmt.Errorf("notification must name a bucket and a key (bucket=%q key=%q)", bucket, record.S3.Object.Key),
		}
	}

	return domain.Location{Bucket: bucket, Key: key}, nil
}

// ProcessRaw decodes and processes raw records one after another in
// delivery order. A record that cannot be decoded yields a failed Result
// and does not affect the others.
func (p *Processor) ProcessRaw(ctx context.Context, records []json.RawMessage) []Result {
	results := make([]Result, 0, len(records))
	for _, raw := range records {
		record, loc, err := DecodeRecord(raw)
		if err != nil {
			res := Result{Source: loc, Err: err}
			p.report(ctx, res)
			results = append(results, res)
			continue
		}
		results = append(results, p.Process(ctx, record))
	}

	return results
}

// Process handles one notification and logs its outcome.
func (p *Processor) Process(ctx context.Context, record events.S3EventRecord) Result {
	src, err := Locate(record)
	if err != nil {
		res := Result{Source: src, Err: err}
		p.report(ctx, res)
		return res
	}

	dst, n, err := p.relay(ctx, src)
	res := Result{Source: src, Destination: dst, Translated: n, Err: err}
	p.report(ctx, res)

	return res
}

func (p *Processor) relay(ctx context.Context, src domain.Location) (domain.Location, int, error) {
	body, err := p.store.Get(ctx, src.Bucket, src.Key)
	if err != nil {
		return domain.Location{}, 0, domain.Classify(err, domain.StageFetch, domain.KindStorageIO)
	}

	req, err := domain.ParseRequest(body, p.opts.DefaultTargetLanguage)
	if err != nil {
		return domain.Location{}, 0, err
	}

	translated, err := p.translateAll(ctx, req)
	if err != nil {
		return domain.Location{}, 0, err
	}

	resp, err := domain.NewResponse(req, translated)
	if err != nil {
		return domain.Location{}, 0, domain.Classify(err, domain.StageTranslate, domain.KindUnknown)
	}

	payload, err := resp.Encode()
	if err != nil {
		return domain.Location{}, 0, domain.Classify(err, domain.StageStore, domain.KindUnknown)
	}

	dst := domain.Location{Bucket: p.opts.ResponseBucket, Key: domain.OutputKey(src.Key)}
	if err := p.store.Put(ctx, dst.Bucket, dst.Key, payload, ContentType); err != nil {
		return dst, 0, domain.Classify(err, domain.StageStore, domain.KindStorageIO)
	}

	return dst, len(translated), nil
}

// translateAll translates the texts strictly in order and gives up on the
// first failure.
func (p *Processor) translateAll(ctx context.Context, req domain.Request) ([]string, error) {
	translated := make([]string, 0, len(req.TextList))
	for i, text := range req.TextList {
		out, err := p.translator.Translate(ctx, text, req.SourceLanguageCode, req.TargetLanguageCode)
		if err != nil {
			return nil, fmt.Errorf("text %d of %d: %w", i+1, len(req.TextList),
				domain.Classify(err, domain.StageTranslate, domain.KindProviderTransient))
		}
		translated = append(translated, out)
	}

	return translated, nil
}

// report logs through the request-scoped logger in ctx when there is one.
func (p *Processor) report(ctx context.Context, res Result) {
	log := logger.FromContext(ctx, p.log)
	if res.OK() {
		log.Info().
			Str("source", res.Source.String()).
			Str("destination", res.Destination.String()).
			Int("texts", res.Translated).
			Msg("translated file saved")
		return
	}

	log.Error().
		Err(res.Err).
		Str("source", res.Source.String()).
		Str("stage", string(domain.StageOf(res.Err))).
		Str("kind", domain.KindOf(res.Err).String()).
		Msg("translation failed")
}
