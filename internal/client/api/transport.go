package api

import (
	"context"
	"net/http"
)

// TokenSource supplies the current bearer credential. An empty string means
// no credential is present.
type TokenSource interface {
	Token() string
}

type noAuthKey struct{}

// withoutAuth marks a request as unauthenticated (login/signup), so the
// transport neither attaches the credential nor treats a 401 as a
// credential rejection.
func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, noAuthKey{}, true)
}

func isWithoutAuth(ctx context.Context) bool {
	v, _ := ctx.Value(noAuthKey{}).(bool)
	return v
}

// authTransport injects the bearer credential into outgoing requests and
// invokes onUnauthorized whenever an authenticated request is answered with
// 401. The hook is registered once at process start and lives for the
// process lifetime.
type authTransport struct {
	base           http.RoundTripper
	tokens         TokenSource
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	authed := false
	if !isWithoutAuth(req.Context()) && t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
			authed = true
		}
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// The rejection signal always wins over whatever is in flight.
	if authed && resp.StatusCode == http.StatusUnauthorized && t.onUnauthorized != nil {
		t.onUnauthorized()
	}

	return resp, nil
}
