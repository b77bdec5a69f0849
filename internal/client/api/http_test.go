package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prepio/prepio-cli/internal/client/models"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, &staticTokens{tok: "tok"}, nil)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{200, nil},
		{204, nil},
		{400, ErrInvalidRequest},
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{409, ErrConflict},
		{500, ErrUnavailable},
		{503, ErrUnavailable},
	}

	for _, tc := range tests {
		err := mapStatus(tc.code, nil)
		if tc.want == nil {
			require.NoError(t, err, "code %d", tc.code)
			continue
		}
		require.ErrorIs(t, err, tc.want, "code %d", tc.code)
	}
}

func TestMapStatus_IncludesServerMessage(t *testing.T) {
	err := mapStatus(400, []byte(`{"message":"file too large"}`))
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Contains(t, err.Error(), "file too large")
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"), "login must not carry the credential")

		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "alice@example.org", in.Email)
		require.Equal(t, "pw", in.Password)

		json.NewEncoder(w).Encode(authResponse{
			Token: "tok-xyz",
			User:  models.UserProfile{ID: "u1", Name: "Alice", Email: in.Email},
		})
	}))

	tok, user, err := c.Login(context.Background(), "alice@example.org", []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, "tok-xyz", tok)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Alice", user.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"invalid credentials"}`)
	}))

	_, _, err := c.Login(context.Background(), "alice@example.org", []byte("wrong"))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `{"user":{"id":"u1","name":"Alice","email":"a@b.c"}}`)
	}))

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
}

func TestUploadDocument_Multipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(4<<20))
		require.Equal(t, "resume", r.FormValue("type"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "cv.pdf", hdr.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, []byte("%PDF-"), data)

		io.WriteString(w, `{"document":{"id":"d1","type":"resume","originalName":"cv.pdf"}}`)
	}))

	doc, err := c.UploadDocument(context.Background(), models.KindResume, "cv.pdf", []byte("%PDF-"))
	require.NoError(t, err)
	require.Equal(t, "d1", doc.ID)
	require.Equal(t, models.KindResume, doc.Kind)
}

func TestListDocuments(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents/list", r.URL.Path)
		io.WriteString(w, `{"documents":[{"id":"d1","type":"resume"},{"id":"d2","type":"job_description"}]}`)
	}))

	docs, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, models.KindJobDescription, docs[1].Kind)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/documents/d9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))

	err := c.DeleteDocument(context.Background(), "d9")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStartChat_NotReady(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"upload both documents first"}`)
	}))

	_, err := c.StartChat(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
}

func TestStartChat_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/start", r.URL.Path)
		io.WriteString(w, `{"sessionId":"s1","message":"Welcome","questions":["Tell me about yourself"]}`)
	}))

	res, err := c.StartChat(context.Background())
	require.NoError(t, err)
	require.Equal(t, "s1", res.SessionID)
	require.Equal(t, "Welcome", res.Message)
	require.Equal(t, []string{"Tell me about yourself"}, res.Questions)
}

func TestSendMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/query", r.URL.Path)
		var in struct {
			Message   string `json:"message"`
			SessionID string `json:"sessionId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "s1", in.SessionID)
		require.Equal(t, "I built X", in.Message)

		io.WriteString(w, `{"response":"Good **answer**","score":8,"feedback":"solid","citations":[{"text":"src"}]}`)
	}))

	res, err := c.SendMessage(context.Background(), "s1", "I built X")
	require.NoError(t, err)
	require.Equal(t, "Good **answer**", res.Response)
	require.NotNil(t, res.Score)
	require.Equal(t, 8, *res.Score)
	require.Equal(t, "solid", res.Feedback)
	require.Len(t, res.Citations, 1)
}

func TestSendMessage_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewHTTPClient(srv.URL, time.Second, &staticTokens{}, nil)
	srv.Close()

	_, err := c.SendMessage(context.Background(), "s1", "hello")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestChatSessionsAndHistory(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/sessions":
			io.WriteString(w, `{"sessions":[{"sessionId":"s1","title":"Backend role"}]}`)
		case "/chat/history/s1":
			io.WriteString(w, `{"messages":[{"role":"assistant","content":"Welcome"},{"role":"user","content":"hi"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	sessions, err := c.ChatSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "s1", sessions[0].SessionID)

	turns, err := c.ChatHistory(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, models.RoleAssistant, turns[0].Role)
	require.Equal(t, models.RoleUser, turns[1].Role)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
	}))
	require.NoError(t, c.Ping(context.Background()))
}

func TestDo_ContextCancelled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Ping(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnavailable) || errors.Is(err, context.Canceled))
}
