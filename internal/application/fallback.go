package application

import (
	"hash/fnv"
	"path/filepath"
	"strings"
)

var fallbackTranscripts = [...]string{
	"Merhaba, bu bir test mesajıdır",
	"Ses tanıma servisi çalışıyor",
	"Unity VR projesi aktif",
	"Speech to text başarılı",
	"Test transkripti tamamlandı",
}

// Fallback picks a placeholder transcript for a take whose recognition came
// back empty. The choice depends only on the base name of identifier, so the
// same file always maps to the same sentence.
func Fallback(identifier string) string {
	base := filepath.Base(identifier)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	h := fnv.New32a()
	h.Write([]byte(base))
	return fallbackTranscripts[h.Sum32()%uint32(len(fallbackTranscripts))]
}

// FallbackTranscripts returns the fixed placeholder set.
func FallbackTranscripts() []string {
	out := make([]string, len(fallbackTranscripts))
	copy(out, fallbackTranscripts[:])
	return out
}
