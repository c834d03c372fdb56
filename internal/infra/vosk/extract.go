package vosk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"voice-assistant/internal/domain"
)

// Fields are tried in this order; the first non-empty value wins.
var transcriptFields = []string{"text", "partial"}

var fieldPattern = regexp.MustCompile(`"(text|partial)"\s*:\s*"((?:[^"\\]|\\.)*)"`)

var turkishLetters = []rune{'ı', 'ğ', 'ü', 'ş', 'ö', 'ç', 'İ', 'Ğ', 'Ü', 'Ş', 'Ö', 'Ç'}

// diacritics rewrites escape sequences that are still literal text after
// generic decoding, e.g. when the server double-escaped its output.
var diacritics = newDiacriticReplacer()

func newDiacriticReplacer() *strings.Replacer {
	var pairs []string
	for _, r := range turkishLetters {
		lower := fmt.Sprintf(`\u%04x`, r)
		upper := fmt.Sprintf(`\u%04X`, r)
		pairs = append(pairs, lower, string(r))
		if upper != lower {
			pairs = append(pairs, upper, string(r))
		}
	}
	return strings.NewReplacer(pairs...)
}

// Extract turns an STT response body into a transcript. It never fails:
// anything unusable is logged and reported as Empty.
func Extract(logger *slog.Logger, body string) domain.TranscriptResult {
	if logger == nil {
		logger = slog.Default()
	}

	if strings.TrimSpace(body) == "" {
		logger.Warn("empty STT response body")
		return domain.Empty()
	}

	values, err := parseFields(body)
	if err != nil {
		logger.Warn("STT response is not valid JSON, scanning for fields", "error", err)
		values = scanFields(body)
	}

	for _, field := range transcriptFields {
		raw, ok := values[field]
		if !ok {
			continue
		}
		result := domain.Recognized(normalize(raw))
		if !result.IsEmpty() {
			logger.Debug("transcript extracted", "field", field, "text", result.Text)
			return result
		}
	}

	logger.Warn("no usable transcript in STT response", "body", body)
	return domain.Empty()
}

func parseFields(body string) (map[string]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	values := make(map[string]string, len(transcriptFields))
	for _, field := range transcriptFields {
		raw, ok := doc[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// Non-string values count as absent.
			continue
		}
		values[field] = s
	}
	return values, nil
}

// scanFields mirrors a substring search for bodies that are not valid JSON
// as a whole but still carry a readable field.
func scanFields(body string) map[string]string {
	values := make(map[string]string, len(transcriptFields))
	for _, m := range fieldPattern.FindAllStringSubmatch(body, -1) {
		field, raw := m[1], m[2]
		if _, seen := values[field]; seen {
			continue
		}
		values[field] = unescape(raw)
	}
	return values
}

func unescape(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}

func normalize(text string) string {
	return norm.NFC.String(diacritics.Replace(text))
}
