package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore writes takes and transcripts into one directory. A transcript
// shares the base name of its recording with a .txt extension.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) SaveRecording(name string, wav []byte) (string, error) {
	return f.write(filepath.Base(name), wav)
}

func (f *FileStore) SaveTranscript(name string, text string) (string, error) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	return f.write(base, []byte(text))
}

func (f *FileStore) write(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("creating recordings dir: %w", err)
	}

	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
