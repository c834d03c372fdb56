package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"voice-assistant/internal/application"
)

const usage = `commands:
  r            start recording
  t            stop recording and send
  v            push-to-talk: first v presses, second v releases
  s <message>  send a typed message
  status       show pipeline state
  q            quit`

type triggerer interface {
	HandleTrigger(ctx context.Context, t application.Trigger) error
	SendText(ctx context.Context, text string) error
	Status() application.StatusSnapshot
}

// handleCommands reads one command per line until EOF or quit. A terminal
// cannot report key releases, so push-to-talk is emulated with a toggle.
func handleCommands(ctx context.Context, in io.Reader, out io.Writer, a triggerer, mode application.Mode, quit func(), logger *slog.Logger) {
	fmt.Fprintln(out, usage)

	held := false
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		var err error
		switch strings.ToLower(cmd) {
		case "r":
			err = a.HandleTrigger(ctx, application.TriggerStart)
		case "t":
			err = a.HandleTrigger(ctx, application.TriggerStop)
		case "v":
			if mode != application.ModePushToTalk {
				fmt.Fprintln(out, "v is only available in push_to_talk mode")
				continue
			}
			if held {
				err = a.HandleTrigger(ctx, application.TriggerRelease)
			} else {
				err = a.HandleTrigger(ctx, application.TriggerPress)
			}
			held = !held
		case "s":
			err = a.SendText(ctx, arg)
		case "status":
			s := a.Status()
			fmt.Fprintf(out, "state=%s generation=%d pending=%d\n", s.State, s.Generation, s.Pending)
		case "q", "quit", "exit":
			quit()
			return
		case "help":
			fmt.Fprintln(out, usage)
		default:
			fmt.Fprintf(out, "unknown command: %s\n", cmd)
		}

		if err != nil {
			logger.Warn("command failed", "command", cmd, "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("reading commands", "error", err)
	}
}
