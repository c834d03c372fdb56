package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/console"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSubtitles(t *testing.T) {
	var out bytes.Buffer
	s := console.NewSubtitles(&out)
	ctx := context.Background()

	require.NoError(t, s.Present(ctx, application.Message{Kind: application.MessageStatus, Text: "Kayıt alınıyor..."}))
	require.NoError(t, s.Present(ctx, application.Message{Kind: application.MessageTranscript, Text: "Siz: merhaba"}))
	require.NoError(t, s.Present(ctx, application.Message{Kind: application.MessageReply, Text: "AI: iki\nsatır"}))
	require.NoError(t, s.Present(ctx, application.Message{Kind: application.MessageError, Text: "AI hatası: boom"}))
	require.NoError(t, s.Present(ctx, application.Message{Kind: application.MessageStatus, Text: "  "}))

	assert.Equal(t, "· Kayıt alınıyor...\nSiz: merhaba\nAI: iki satır\n! AI hatası: boom\n", out.String())
}

func TestClipboard_CopiesRepliesOnly(t *testing.T) {
	var copied []string
	c := console.NewClipboardWith(func(s string) error {
		copied = append(copied, s)
		return nil
	}, discard)
	ctx := context.Background()

	c.Present(ctx, application.Message{Kind: application.MessageTranscript, Text: "Siz: merhaba"})
	c.Present(ctx, application.Message{Kind: application.MessageError, Text: "AI hatası: boom"})
	c.Present(ctx, application.Message{Kind: application.MessageReply, Text: "AI: Selam!"})

	assert.Equal(t, []string{"Selam!"}, copied)
}

func TestMulti_JoinsErrors(t *testing.T) {
	var out bytes.Buffer
	failing := console.NewClipboardWith(func(string) error { return errors.New("no clipboard") }, discard)
	m := console.Multi{console.NewSubtitles(&out), failing}

	err := m.Present(context.Background(), application.Message{Kind: application.MessageReply, Text: "AI: Selam!"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clipboard")
	assert.Equal(t, "AI: Selam!\n", out.String(), "earlier presenters still run")
}
