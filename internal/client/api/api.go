package api

import (
	"context"
	"time"

	"github.com/prepio/prepio-cli/internal/client/models"
)

// Client is the backend surface consumed by the application services.
type Client interface {
	Close() error

	Login(ctx context.Context, email string, password []byte) (string, models.UserProfile, error)
	Signup(ctx context.Context, name, email string, password []byte) (string, models.UserProfile, error)
	Me(ctx context.Context) (models.UserProfile, error)

	UploadDocument(ctx context.Context, kind models.DocumentKind, name string, content []byte) (models.DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]models.DocumentRecord, error)
	DeleteDocument(ctx context.Context, id string) error
	CheckReadiness(ctx context.Context) (models.ReadinessStatus, error)

	StartChat(ctx context.Context) (StartChatResult, error)
	SendMessage(ctx context.Context, sessionID, message string) (SendMessageResult, error)
	ChatHistory(ctx context.Context, sessionID string) ([]models.Turn, error)
	ChatSessions(ctx context.Context) ([]ChatSessionSummary, error)

	Ping(ctx context.Context) error
}

// StartChatResult is the server's answer to a start-session request.
type StartChatResult struct {
	SessionID string   `json:"sessionId"`
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
}

// SendMessageResult is the assistant's reply to one user message.
// Score, when present, is an integer in 1-10.
type SendMessageResult struct {
	Response  string            `json:"response"`
	Score     *int              `json:"score,omitempty"`
	Feedback  string            `json:"feedback,omitempty"`
	Citations []models.Citation `json:"citations,omitempty"`
}

// ChatSessionSummary describes one past interview session.
type ChatSessionSummary struct {
	SessionID string    `json:"sessionId"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
