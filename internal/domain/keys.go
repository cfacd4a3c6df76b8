package domain

import "strings"

const (
	// RequestsMarker is the path segment request files are dropped under.
	RequestsMarker = "requests/"
	// TranslationsMarker replaces RequestsMarker in the output key.
	TranslationsMarker = "translations/"
)

// OutputKey derives the response key from a request key by replacing the
// first RequestsMarker with TranslationsMarker. Keys without the marker
// are returned unchanged.
func OutputKey(key string) string {
	return strings.Replace(key, RequestsMarker, TranslationsMarker, 1)
}
