// Package api implements the HTTP client for the interview-practice backend.
//
// It exposes a Client interface consumed by the application services, a
// concrete HTTPClient over the REST API, and an auth transport that attaches
// the bearer credential to every authenticated request and reports
// authentication rejections through a hook registered once at startup.
//
// Backend failures are normalized to the sentinel errors in errors.go so
// callers can branch with errors.Is instead of inspecting status codes.
package api
