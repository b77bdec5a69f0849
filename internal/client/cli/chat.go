package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/models"
	"github.com/prepio/prepio-cli/internal/client/services"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// renderContent turns raw assistant markup into terminal text. Emphasis
// markers never reach the terminal verbatim.
func renderContent(s string) string {
	var b strings.Builder
	for _, seg := range models.ParseEmphasis(s) {
		if seg.Bold {
			b.WriteString(ansiBold)
			b.WriteString(seg.Text)
			b.WriteString(ansiReset)
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// renderTurn prints one transcript entry. idx is the transcript index used
// to address the turn's sources from the chat sub-loop.
func renderTurn(idx int, t models.Turn) {
	switch t.Role {
	case models.RoleUser:
		printlnFn(fmt.Sprintf("you> %s", t.Content))
	default:
		printlnFn(fmt.Sprintf("coach> %s", renderContent(t.Content)))
		if t.Score != nil {
			printlnFn(fmt.Sprintf("       score: %d/10", *t.Score))
		}
		if t.Feedback != "" {
			printlnFn(fmt.Sprintf("       feedback: %s", renderContent(t.Feedback)))
		}
		if n := len(t.Citations); n > 0 {
			printlnFn(fmt.Sprintf("       [%d sources, type '/sources %d' to view]", n, idx))
		}
	}
}

// Chat runs one interview session in an interactive sub-loop.
//
// The sub-loop accepts:
//   - any text        — sent as an interview answer
//   - /sources <n>    — show the citations of the assistant turn at index n
//   - /back           — leave the session and return to the main prompt
//
// Leaving discards the in-memory transcript; the server keeps the
// authoritative history (see the 'history' command).
func (a *App) Chat(ctx context.Context) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	st, err := a.documents.CheckReadiness(ctx)
	if err != nil {
		log.Printf("Could not check readiness: %s", err.Error())
		return err
	}
	if !st.ReadyForChat {
		a.printReadiness(st)
		return nil
	}

	conv := services.NewConversation(a.apiClient)
	defer conv.Close()

	if err := conv.Start(ctx); err != nil {
		if errors.Is(err, api.ErrNotReady) {
			// server disagreed with our cached readiness; its word is final
			printlnFn("Upload both documents before starting an interview.")
			return nil
		}
		log.Printf("Could not start the session: %s", err.Error())
		return err
	}

	for i, t := range conv.Turns() {
		renderTurn(i, t)
	}
	printlnFn("Type your answers. '/sources <n>' shows sources, '/back' leaves the session.")

	for {
		fmt.Print("chat> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue

		case line == "/back":
			return nil

		case strings.HasPrefix(line, "/sources"):
			a.showSources(conv, strings.Fields(line)[1:])
			continue
		}

		conv.ClearCitationSelection()

		before := len(conv.Turns())
		if err := conv.Send(ctx, line); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return err
			}
			log.Printf("Send failed: %s", err.Error())
			continue
		}

		for i, t := range conv.Turns()[before:] {
			renderTurn(before+i, t)
		}
	}
}

func (a *App) showSources(conv *services.Conversation, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: /sources <n>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		printlnFn("Usage: /sources <n>")
		return
	}

	citations, err := conv.SelectCitations(idx)
	if err != nil {
		printlnFn("No sources for that message.")
		return
	}
	for i, c := range citations {
		printlnFn(fmt.Sprintf("  [%d] %s", i+1, c.Text))
	}
}

// Sessions lists past interview sessions, newest first as the server
// returns them.
func (a *App) Sessions(ctx context.Context) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	sessions, err := a.apiClient.ChatSessions(ctx)
	if err != nil {
		log.Printf("Could not list sessions: %s", err.Error())
		return err
	}

	if len(sessions) == 0 {
		printlnFn("No past sessions.")
		return nil
	}

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		printlnFn(fmt.Sprintf("%s  %s  %s", s.SessionID, s.CreatedAt.Format("2006-01-02 15:04"), title))
	}
	return nil
}

// History prints the transcript of a past session. Usage: history <id>.
func (a *App) History(ctx context.Context, args []string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	if len(args) == 0 {
		printlnFn("Usage: history <id>")
		return nil
	}

	turns, err := a.apiClient.ChatHistory(ctx, args[0])
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			printlnFn("No such session.")
			return err
		}
		log.Printf("Could not fetch history: %s", err.Error())
		return err
	}

	for i, t := range turns {
		renderTurn(i, t)
	}
	return nil
}
