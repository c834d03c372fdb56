// Package console renders pipeline messages for a terminal user.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

// Subtitles prints every message as a single line, replacing newlines so a
// reply never breaks the layout.
type Subtitles struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSubtitles(out io.Writer) *Subtitles {
	return &Subtitles{out: out}
}

func (s *Subtitles) Present(_ context.Context, msg application.Message) error {
	line := strings.ReplaceAll(strings.TrimSpace(msg.Text), "\n", " ")
	if line == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch msg.Kind {
	case application.MessageError:
		_, err = fmt.Fprintf(s.out, "! %s\n", line)
	case application.MessageStatus:
		_, err = fmt.Fprintf(s.out, "· %s\n", line)
	default:
		_, err = fmt.Fprintln(s.out, line)
	}
	return err
}

// Clipboard copies successful replies so they can be pasted elsewhere.
type Clipboard struct {
	write  func(string) error
	logger *slog.Logger
}

func NewClipboard(logger *slog.Logger) *Clipboard {
	return &Clipboard{write: clipboard.WriteAll, logger: logger}
}

// NewClipboardWith uses write instead of the system clipboard.
func NewClipboardWith(write func(string) error, logger *slog.Logger) *Clipboard {
	return &Clipboard{write: write, logger: logger}
}

func (c *Clipboard) Present(_ context.Context, msg application.Message) error {
	if msg.Kind != application.MessageReply {
		return nil
	}
	text := strings.TrimPrefix(msg.Text, domain.ReplyPrefix)
	if err := c.write(text); err != nil {
		return fmt.Errorf("copying reply to clipboard: %w", err)
	}
	c.logger.Debug("reply copied to clipboard", "chars", len(text))
	return nil
}

// Multi fans a message out to every presenter and joins their errors.
type Multi []application.Presenter

func (m Multi) Present(ctx context.Context, msg application.Message) error {
	var errs []error
	for _, p := range m {
		if err := p.Present(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
