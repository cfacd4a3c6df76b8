package processor

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/processor_mock.go -package=mock

// ObjectStore reads and writes whole objects.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// TextTranslator translates one text at a time.
type TextTranslator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}
