package services

import (
	"context"
	"errors"
	"sync"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/models"
)

var errTest = errors.New("boom")

// fakeAPI implements api.Client for the service tests.
type fakeAPI struct {
	mu sync.Mutex

	loginToken string
	loginUser  models.UserProfile
	loginErr   error

	signupToken string
	signupUser  models.UserProfile
	signupErr   error

	meUser  models.UserProfile
	meErr   error
	meCalls int
	meHook  func() // runs inside Me, before returning

	docs    []models.DocumentRecord
	listErr error

	uploadDoc  models.DocumentRecord
	uploadErr  error
	lastUpload struct {
		kind    models.DocumentKind
		name    string
		content []byte
	}

	deleteErr  error
	deletedIDs []string

	readiness    models.ReadinessStatus
	readinessErr error

	startRes   api.StartChatResult
	startErr   error
	startCalls int

	sendRes   api.SendMessageResult
	sendErr   error
	sendCalls int
	sendHook  func() // runs inside SendMessage, before returning
	lastSent  string

	historyTurns []models.Turn
	sessions     []api.ChatSessionSummary

	pingErr error
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) Login(_ context.Context, email string, password []byte) (string, models.UserProfile, error) {
	return f.loginToken, f.loginUser, f.loginErr
}

func (f *fakeAPI) Signup(_ context.Context, name, email string, password []byte) (string, models.UserProfile, error) {
	return f.signupToken, f.signupUser, f.signupErr
}

func (f *fakeAPI) Me(_ context.Context) (models.UserProfile, error) {
	f.mu.Lock()
	f.meCalls++
	hook := f.meHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.meUser, f.meErr
}

func (f *fakeAPI) UploadDocument(_ context.Context, kind models.DocumentKind, name string, content []byte) (models.DocumentRecord, error) {
	f.mu.Lock()
	f.lastUpload.kind = kind
	f.lastUpload.name = name
	f.lastUpload.content = append([]byte(nil), content...)
	f.mu.Unlock()
	return f.uploadDoc, f.uploadErr
}

func (f *fakeAPI) ListDocuments(_ context.Context) ([]models.DocumentRecord, error) {
	return f.docs, f.listErr
}

func (f *fakeAPI) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	f.deletedIDs = append(f.deletedIDs, id)
	f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeAPI) CheckReadiness(_ context.Context) (models.ReadinessStatus, error) {
	return f.readiness, f.readinessErr
}

func (f *fakeAPI) StartChat(_ context.Context) (api.StartChatResult, error) {
	f.mu.Lock()
	f.startCalls++
	f.mu.Unlock()
	return f.startRes, f.startErr
}

func (f *fakeAPI) SendMessage(_ context.Context, sessionID, message string) (api.SendMessageResult, error) {
	f.mu.Lock()
	f.sendCalls++
	f.lastSent = message
	hook := f.sendHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return f.sendRes, f.sendErr
}

func (f *fakeAPI) ChatHistory(_ context.Context, sessionID string) ([]models.Turn, error) {
	return f.historyTurns, nil
}

func (f *fakeAPI) ChatSessions(_ context.Context) ([]api.ChatSessionSummary, error) {
	return f.sessions, nil
}

func (f *fakeAPI) Ping(_ context.Context) error { return f.pingErr }
