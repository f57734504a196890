package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/orderdesk"
	"github.com/aretw0/orderdesk/internal/presentation/tui"
	"github.com/aretw0/orderdesk/pkg/domain"
)

// Conversation is the part of the order desk the chat loop drives.
type Conversation interface {
	Converse(ctx context.Context, sessionID, userName, utterance string) (domain.Result, error)
}

// ChatOptions configures RunChat.
type ChatOptions struct {
	SessionID string
	UserName  string
	// JSON switches to NDJSON: one result object per input line, no prompt or banner.
	JSON bool
	// Renderer formats markdown answers. Defaults to tui.Plain.
	Renderer tui.Renderer
}

// RunChat reads utterances line by line from in and answers on out until EOF,
// "exit"/"quit", a closing phrase, or ctx cancellation.
func RunChat(ctx context.Context, conv Conversation, in io.Reader, out io.Writer, opts ChatOptions) error {
	render := opts.Renderer
	if render == nil {
		render = tui.Plain
	}
	enc := json.NewEncoder(out)

	if !opts.JSON {
		tui.PrintBanner(out, orderdesk.Version)
		printSystemMessage(out, "Session '%s' active. Type 'exit' to leave.", opts.SessionID)
	}

	lines := readLines(ctx, in)
	for {
		if !opts.JSON {
			fmt.Fprint(out, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return handleExecutionError(ctx.Err())
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			if !opts.JSON {
				fmt.Fprintln(out, "Bye!")
			}
			return nil
		}

		res, err := conv.Converse(ctx, opts.SessionID, opts.UserName, line)
		if err != nil {
			if isInterrupted(err) {
				return nil
			}
			if opts.JSON {
				_ = enc.Encode(map[string]string{"error": err.Error()})
			} else {
				printSystemMessage(out, "Error: %v", err)
			}
			continue
		}

		if opts.JSON {
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			text, err := render(tui.FormatResult(res))
			if err != nil {
				text = res.Message + "\n"
			}
			fmt.Fprint(out, text)
		}

		if res.Status == domain.StatusConversationComplete {
			return nil
		}
	}
}

// readLines feeds lines from r until EOF or ctx is done. A blocked read is abandoned,
// not interrupted, when ctx ends.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
