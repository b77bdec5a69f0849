package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/models"
)

type ConversationState int

const (
	StateUninitialized ConversationState = iota
	StateStarting
	StateIdle
	StateSending
	StateClosed
)

// Conversation drives one interview session. The transcript is append-only:
// user turns are appended optimistically and never rolled back; assistant
// turns are appended only after a successful send. Sends are serialized by
// the Sending state, so turns always reflect one-at-a-time request/response
// pairing. The transcript lives only in memory and dies with the view.
type Conversation struct {
	client api.Client

	// test seams
	now   func() time.Time
	newID func() string

	mu         sync.Mutex
	state      ConversationState
	sessionID  string
	nextPrompt string
	turns      []models.Turn
	pending    *models.PendingRequest
	selected   int // transcript index whose citations are open; -1 when none
}

func NewConversation(client api.Client) *Conversation {
	return &Conversation{
		client:   client,
		now:      time.Now,
		newID:    uuid.NewString,
		selected: -1,
	}
}

func (c *Conversation) State() ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// NextPrompt returns the first seed question supplied by the server, kept
// as context for future prompting.
func (c *Conversation) NextPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextPrompt
}

// Turns returns a snapshot of the transcript.
func (c *Conversation) Turns() []models.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Pending reports the in-flight request marker, if any. It renders next to
// the transcript but never enters it.
func (c *Conversation) Pending() *models.PendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Start requests a new session and seeds the transcript with the server's
// greeting. Not retried automatically: on failure the conversation stays
// Uninitialized so the caller may retry by re-entering.
func (c *Conversation) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrClosed
	case StateUninitialized:
	default:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateStarting
	c.pending = &models.PendingRequest{ID: c.newID(), StartedAt: c.now()}
	c.mu.Unlock()

	res, err := c.client.StartChat(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		// torn down mid-flight; discard the result
		return ErrClosed
	}
	c.pending = nil
	if err != nil {
		c.state = StateUninitialized
		return err
	}

	c.sessionID = res.SessionID
	if len(res.Questions) > 0 {
		c.nextPrompt = res.Questions[0]
	}
	c.turns = append(c.turns, models.Turn{
		Role:      models.RoleAssistant,
		Content:   res.Message,
		Timestamp: c.now(),
	})
	c.state = StateIdle
	return nil
}

// Send submits one user message. The trimmed input must be non-empty and no
// other send may be in flight. The user turn is appended before the request
// is issued and is kept even when the request fails; only the assistant
// turn is contingent on success.
func (c *Conversation) Send(ctx context.Context, input string) error {
	msg := strings.TrimSpace(input)
	if msg == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	switch c.state {
	case StateClosed:
		c.mu.Unlock()
		return ErrClosed
	case StateUninitialized, StateStarting:
		c.mu.Unlock()
		return ErrNotStarted
	case StateSending:
		c.mu.Unlock()
		return ErrBusy
	}
	c.turns = append(c.turns, models.Turn{
		Role:      models.RoleUser,
		Content:   msg,
		Timestamp: c.now(),
	})
	c.state = StateSending
	c.pending = &models.PendingRequest{ID: c.newID(), StartedAt: c.now()}
	sessionID := c.sessionID
	c.mu.Unlock()

	res, err := c.client.SendMessage(ctx, sessionID, msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return ErrClosed
	}
	c.pending = nil
	c.state = StateIdle
	if err != nil {
		return err
	}

	c.turns = append(c.turns, models.Turn{
		Role:      models.RoleAssistant,
		Content:   res.Response,
		Timestamp: c.now(),
		Score:     res.Score,
		Feedback:  res.Feedback,
		Citations: res.Citations,
	})
	return nil
}

// SelectCitations opens the citation view for the assistant turn at
// transcript index i. At most one citation set is open at a time; selecting
// another turn replaces the previous selection.
func (c *Conversation) SelectCitations(i int) ([]models.Citation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.turns) {
		return nil, ErrNoCitations
	}
	t := c.turns[i]
	if t.Role != models.RoleAssistant || len(t.Citations) == 0 {
		return nil, ErrNoCitations
	}
	c.selected = i
	out := make([]models.Citation, len(t.Citations))
	copy(out, t.Citations)
	return out, nil
}

// SelectedCitations returns the currently open citation set, if any.
func (c *Conversation) SelectedCitations() ([]models.Citation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return nil, false
	}
	t := c.turns[c.selected]
	out := make([]models.Citation, len(t.Citations))
	copy(out, t.Citations)
	return out, true
}

// ClearCitationSelection closes the citation view.
func (c *Conversation) ClearCitationSelection() {
	c.mu.Lock()
	c.selected = -1
	c.mu.Unlock()
}

// Close tears the conversation down. Results of requests still in flight
// are discarded silently; no state is mutated after closing.
func (c *Conversation) Close() {
	c.mu.Lock()
	c.state = StateClosed
	c.pending = nil
	c.mu.Unlock()
}
