package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	consumeRevoked() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Docs(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Chat(ctx context.Context) error
	Sessions(ctx context.Context) error
	History(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runLoop is the read–eval–print loop for the prepio CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help             — show available commands
//	  - whoami           — show the confirmed identity
//	  - upload kind path — upload a resume or job description PDF
//	  - docs             — list uploaded documents
//	  - delete <id>      — remove a document
//	  - status           — show interview readiness
//	  - chat             — start an interview session (interactive sub-loop)
//	  - sessions         — list past interview sessions
//	  - history <id>     — show a past session's transcript
//	  - logout           — log out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runLoop(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if a.consumeRevoked() {
			printlnFn("Session expired, please login again.")
		}

		fmt.Printf("prepio %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, upload <resume|jd> <path>, docs, delete <id>, status, chat, sessions, history <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "docs":
			_ = a.Docs(ctx)

		case "delete":
			_ = a.Delete(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "chat":
			_ = a.Chat(ctx)

		case "sessions":
			_ = a.Sessions(ctx)

		case "history":
			_ = a.History(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// consumeRevoked reports whether a forced logout happened since the last
// check, clearing the flag.
func (a *App) consumeRevoked() bool {
	return a.revoked.Swap(false)
}

func (a *App) getStatus() string {
	s := ""
	if v := a.session.View(); v.User != nil {
		s = v.User.Name + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	printlnFn("Welcome to the prepio CLI (type 'help' for commands)")

	// reconcile a persisted credential with the server before first prompt
	if a.session.CredentialPresent() {
		v := a.session.Refresh(ctx)
		if v.Authenticated && v.User != nil {
			printlnFn(fmt.Sprintf("Logged in as %s", v.User.Email))
		}
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.HealthCheckInterval)
	}()

	runLoop(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
