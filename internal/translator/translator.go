// Package translator translates single texts with Amazon Translate.
package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/aws/smithy-go"

	"github.com/pricofy/translation-relay/internal/domain"
)

// TranslateAPI is the subset of *translate.Client used by AmazonTranslator.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// AmazonTranslator translates texts through the Amazon Translate API.
type AmazonTranslator struct {
	client TranslateAPI
}

// New creates an AmazonTranslator.
func New(client TranslateAPI) *AmazonTranslator {
	return &AmazonTranslator{client: client}
}

// NewFromConfig creates an AmazonTranslator with a client built from cfg.
func NewFromConfig(cfg aws.Config) *AmazonTranslator {
	return New(translate.NewFromConfig(cfg))
}

// Translate translates text from source to target. source may be
// domain.AutoDetect.
func (t *AmazonTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	out, err := t.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		return "", classify(fmt.Errorf("failed to translate %s→%s: %w", source, target, err))
	}

	if out == nil || out.TranslatedText == nil {
		return "", &domain.Error{
			Stage: domain.StageTranslate,
			Kind:  domain.KindProviderTransient,
			Err:   fmt.Errorf("empty translation for %s→%s", source, target),
		}
	}

	return *out.TranslatedText, nil
}

// Error codes of the Amazon Translate exceptions, grouped by relay kind.
var kindByCode = map[string]domain.ErrorKind{
	"InvalidRequestException":                domain.KindInvalidLanguageCode,
	"UnsupportedLanguagePairException":       domain.KindInvalidLanguageCode,
	"DetectedLanguageLowConfidenceException": domain.KindInvalidLanguageCode,
	"TextSizeLimitExceededException":         domain.KindUnsupportedText,
	"TooManyRequestsException":               domain.KindThrottled,
	"LimitExceededException":                 domain.KindThrottled,
	"ThrottlingException":                    domain.KindThrottled,
}

func classify(err error) error {
	kind := domain.KindProviderTransient

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if k, ok := kindByCode[apiErr.ErrorCode()]; ok {
			kind = k
		}
	}

	return &domain.Error{Stage: domain.StageTranslate, Kind: kind, Err: err}
}
