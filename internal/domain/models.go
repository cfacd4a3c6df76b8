// Package domain contains the core domain types for the translation relay.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AutoDetect asks the provider to detect the source language.
const AutoDetect = "auto"

// utf8BOM is stripped from request bodies written by some editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Request is the request file dropped into the input bucket.
type Request struct {
	SourceLanguageCode string   `json:"SourceLanguageCode"`
	TargetLanguageCode string   `json:"TargetLanguageCode"`
	TextList           []string `json:"TextList"`
}

// Response is the translation file written to the response bucket.
// Field order is the order of the keys in the stored JSON.
type Response struct {
	SourceLanguageCode string   `json:"SourceLanguageCode"`
	TargetLanguageCode string   `json:"TargetLanguageCode"`
	OriginalText       []string `json:"OriginalText"`
	TranslatedText     []string `json:"TranslatedText"`
}

// Location identifies one object in object storage.
type Location struct {
	Bucket string
	Key    string
}

// String returns the location as bucket/key.
func (l Location) String() string {
	return l.Bucket + "/" + l.Key
}

// ParseRequest decodes a request file and applies the defaults:
// a missing source language becomes AutoDetect, a missing target
// language becomes defaultTarget and a missing TextList becomes empty.
// Field names must match exactly; "textList" is an unknown field, not
// TextList.
func ParseRequest(body []byte, defaultTarget string) (Request, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Request{}, &Error{Stage: StageParse, Kind: KindInvalidPayload, Err: err}
	}
	// json.Unmarshal accepts a top-level null and leaves the map nil
	if fields == nil {
		return Request{}, &Error{Stage: StageParse, Kind: KindInvalidPayload, Err: fmt.Errorf("request body is null")}
	}

	var req Request
	if err := decodeField(fields, "SourceLanguageCode", &req.SourceLanguageCode); err != nil {
		return Request{}, err
	}
	if err := decodeField(fields, "TargetLanguageCode", &req.TargetLanguageCode); err != nil {
		return Request{}, err
	}
	if err := decodeField(fields, "TextList", &req.TextList); err != nil {
		return Request{}, err
	}

	// an empty code counts as missing
	if req.SourceLanguageCode == "" {
		req.SourceLanguageCode = AutoDetect
	}
	if req.TargetLanguageCode == "" {
		req.TargetLanguageCode = defaultTarget
	}
	if req.TextList == nil {
		req.TextList = []string{}
	}

	return req, nil
}

// decodeField decodes fields[name] into dst when the key is present.
func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Stage: StageParse, Kind: KindInvalidPayload, Err: fmt.Errorf("field %s: %w", name, err)}
	}

	return nil
}

// NewResponse builds the response for a resolved request. translated must
// be aligned index by index with req.TextList.
func NewResponse(req Request, translated []string) (Response, error) {
	if len(translated) != len(req.TextList) {
		return Response{}, fmt.Errorf("translated %d of %d texts", len(translated), len(req.TextList))
	}

	original := req.TextList
	if original == nil {
		original = []string{}
	}
	if translated == nil {
		translated = []string{}
	}

	return Response{
		SourceLanguageCode: req.SourceLanguageCode,
		TargetLanguageCode: req.TargetLanguageCode,
		OriginalText:       original,
		TranslatedText:     translated,
	}, nil
}

// Encode serializes the response as compact UTF-8 JSON. Non-ASCII and
// HTML characters are written as-is, including U+2028 and U+2029.
func (r Response) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators rewrites the \u2028 and \u2029 escapes that
// encoding/json always emits back to the raw characters. Escapes are
// consumed in pairs, so an escaped backslash followed by "u2028" is left
// alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}

	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		switch {
		case bytes.HasPrefix(b[i:], []byte(`\u2028`)):
			out = append(out, "\u2028"...)
			i += 5
		case bytes.HasPrefix(b[i:], []byte(`\u2029`)):
			out = append(out, "\u2029"...)
			i += 5
		default:
			out = append(out, b[i], b[i+1])
			i++
		}
	}

	return out
}
