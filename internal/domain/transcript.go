package domain

import "strings"

// TranscriptResult is either Recognized (non-empty Text) or Empty.
type TranscriptResult struct {
	Text string
}

// Recognized trims text; whitespace-only input yields Empty.
func Recognized(text string) TranscriptResult {
	return TranscriptResult{Text: strings.TrimSpace(text)}
}

func Empty() TranscriptResult {
	return TranscriptResult{}
}

func (r TranscriptResult) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == ""
}
