package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"foo/requests/bar.json", "foo/translations/bar.json"},
		{"requests/r1.json", "translations/r1.json"},
		{"requests/requests/r1.json", "translations/requests/r1.json"},
		// No marker: the response key equals the request key and the
		// response would overwrite the request when both buckets match.
		{"other/path.json", "other/path.json"},
		{"requests.json", "requests.json"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputKey(tt.key))
		})
	}
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")
	classified := &Error{Stage: StageTranslate, Kind: KindThrottled, Err: base}
	wrapped := fmt.Errorf("text 3: %w", classified)

	assert.Equal(t, KindThrottled, KindOf(wrapped))
	assert.Equal(t, StageTranslate, StageOf(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "translate: throttled: boom", classified.Error())

	assert.Equal(t, KindUnknown, KindOf(base))
	assert.Equal(t, Stage(""), StageOf(base))

	// Classify keeps an existing classification
	assert.Same(t, classified, Classify(classified, StageStore, KindStorageIO))
	reclassified := Classify(base, StageStore, KindStorageIO)
	assert.Equal(t, KindStorageIO, KindOf(reclassified))
	assert.Equal(t, StageStore, StageOf(reclassified))
	assert.NoError(t, Classify(nil, StageStore, KindStorageIO))
}
