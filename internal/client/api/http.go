package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prepio/prepio-cli/internal/client/models"
)

// HTTPClient talks to the backend REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client rooted at baseURL. The tokens source and the
// onUnauthorized hook are wired into the transport exactly once here; every
// request issued through this client goes through that transport.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, onUnauthorized func()) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				tokens:         tokens,
				onUnauthorized: onUnauthorized,
			},
		},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
}

func mapStatus(code int, body []byte) error {
	if code < 300 {
		return nil
	}

	var er errorResponse
	_ = json.Unmarshal(body, &er)

	var sentinel error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case code == http.StatusNotFound:
		sentinel = ErrNotFound
	case code == http.StatusConflict:
		sentinel = ErrConflict
	case code >= 500:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrInvalidRequest
	}

	if er.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, er.Message)
	}
	return fmt.Errorf("%w: http %d", sentinel, code)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := mapStatus(resp.StatusCode, data); err != nil {
		return err
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

type authResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, models.UserProfile, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: string(password)}

	var out authResponse
	if err := c.doJSON(withoutAuth(ctx), http.MethodPost, "/auth/login", in, &out); err != nil {
		return "", models.UserProfile{}, err
	}
	return out.Token, out.User, nil
}

func (c *HTTPClient) Signup(ctx context.Context, name, email string, password []byte) (string, models.UserProfile, error) {
	in := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Name: name, Email: email, Password: string(password)}

	var out authResponse
	if err := c.doJSON(withoutAuth(ctx), http.MethodPost, "/auth/signup", in, &out); err != nil {
		return "", models.UserProfile{}, err
	}
	return out.Token, out.User, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.UserProfile, error) {
	var out struct {
		User models.UserProfile `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return models.UserProfile{}, err
	}
	return out.User, nil
}

func (c *HTTPClient) UploadDocument(ctx context.Context, kind models.DocumentKind, name string, content []byte) (models.DocumentRecord, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		return models.DocumentRecord{}, err
	}
	if _, err := fw.Write(content); err != nil {
		return models.DocumentRecord{}, err
	}
	if err := w.WriteField("type", string(kind)); err != nil {
		return models.DocumentRecord{}, err
	}
	if err := w.Close(); err != nil {
		return models.DocumentRecord{}, err
	}

	var out struct {
		Document models.DocumentRecord `json:"document"`
	}
	if err := c.do(ctx, http.MethodPost, "/documents/upload", &buf, w.FormDataContentType(), &out); err != nil {
		return models.DocumentRecord{}, err
	}
	return out.Document, nil
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.DocumentRecord, error) {
	var out struct {
		Documents []models.DocumentRecord `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/documents/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) CheckReadiness(ctx context.Context) (models.ReadinessStatus, error) {
	var out models.ReadinessStatus
	if err := c.doJSON(ctx, http.MethodGet, "/documents/check", nil, &out); err != nil {
		return models.ReadinessStatus{}, err
	}
	return out, nil
}

func (c *HTTPClient) StartChat(ctx context.Context) (StartChatResult, error) {
	var out StartChatResult
	if err := c.doJSON(ctx, http.MethodPost, "/chat/start", nil, &out); err != nil {
		// The server refuses to start until both documents are uploaded.
		if errors.Is(err, ErrInvalidRequest) {
			return StartChatResult{}, fmt.Errorf("%w", ErrNotReady)
		}
		return StartChatResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, sessionID, message string) (SendMessageResult, error) {
	in := struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}{Message: message, SessionID: sessionID}

	var out SendMessageResult
	if err := c.doJSON(ctx, http.MethodPost, "/chat/query", in, &out); err != nil {
		return SendMessageResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) ChatHistory(ctx context.Context, sessionID string) ([]models.Turn, error) {
	var out struct {
		Messages []models.Turn `json:"messages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTPClient) ChatSessions(ctx context.Context) ([]ChatSessionSummary, error) {
	var out struct {
		Sessions []ChatSessionSummary `json:"sessions"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}
