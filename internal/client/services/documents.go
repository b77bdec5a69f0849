package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/models"
)

// MaxDocumentSize is the client-enforced upload limit.
const MaxDocumentSize = 2 << 20 // 2 MiB

// DocumentService caches the server-owned document set and derives
// readiness from it. Readiness is recomputed synchronously on every change
// to the cached set, never stored independently.
type DocumentService interface {
	Refresh(ctx context.Context) ([]models.DocumentRecord, error)
	Documents() []models.DocumentRecord
	Readiness() models.ReadinessStatus
	CheckReadiness(ctx context.Context) (models.ReadinessStatus, error)
	Upload(ctx context.Context, kind models.DocumentKind, name string, content []byte) (models.DocumentRecord, error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	client api.Client

	mu        sync.Mutex
	docs      []models.DocumentRecord
	readiness models.ReadinessStatus
}

func NewDocumentService(client api.Client) DocumentService {
	return &documentService{client: client}
}

func (s *documentService) Refresh(ctx context.Context) ([]models.DocumentRecord, error) {
	docs, err := s.client.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.setDocsLocked(docs)
	s.mu.Unlock()
	return docs, nil
}

func (s *documentService) Documents() []models.DocumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DocumentRecord, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *documentService) Readiness() models.ReadinessStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readiness
}

// CheckReadiness asks the server, which is the final arbiter, and refreshes
// the derived status from its answer.
func (s *documentService) CheckReadiness(ctx context.Context) (models.ReadinessStatus, error) {
	st, err := s.client.CheckReadiness(ctx)
	if err != nil {
		return models.ReadinessStatus{}, err
	}
	s.mu.Lock()
	s.readiness = st
	s.mu.Unlock()
	return st, nil
}

// validateUpload enforces the client-visible constraints before dispatch.
func validateUpload(name string, content []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ErrUnsupportedFormat
	}
	if len(content) > MaxDocumentSize {
		return ErrFileTooLarge
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, kind models.DocumentKind, name string, content []byte) (models.DocumentRecord, error) {
	if err := validateUpload(name, content); err != nil {
		return models.DocumentRecord{}, err
	}

	doc, err := s.client.UploadDocument(ctx, kind, name, content)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	s.mu.Lock()
	// the new upload supersedes any prior document of the same kind
	kept := s.docs[:0]
	for _, d := range s.docs {
		if d.Kind != doc.Kind {
			kept = append(kept, d)
		}
	}
	s.setDocsLocked(append(kept, doc))
	s.mu.Unlock()

	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.docs[:0]
	for _, d := range s.docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.setDocsLocked(kept)
	s.mu.Unlock()
	return nil
}

// setDocsLocked replaces the cache and recomputes readiness in the same
// step so the status can never go stale against the document set.
func (s *documentService) setDocsLocked(docs []models.DocumentRecord) {
	s.docs = docs
	s.readiness = models.EvaluateReadiness(docs)
}
