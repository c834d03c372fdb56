package application

// ArtifactStore persists the WAV of a take and its transcript under the
// same base name.
type ArtifactStore interface {
	SaveRecording(name string, wav []byte) (string, error)
	SaveTranscript(name string, text string) (string, error)
}
