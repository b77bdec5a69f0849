// Package cli provides the interactive prepio command-line client.
//
// It wires configuration, the local credential store, the backend API
// client, and an interactive REPL for interview practice. Typical flow:
// log in (or sign up), upload a resume and a job description, then enter
// the chat to practice against the interview agent.
//
// Key features:
//   - Login / Signup / Logout with a locally persisted session token
//   - Upload, list, and delete documents; readiness status
//   - Interview chat with scores, feedback, and source citations
//   - Past session listing and transcript history
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
