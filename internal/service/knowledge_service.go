package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/advisor"
	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// KnowledgeService manages internal documents fed to the advisor and the
// canned response scripts.
type KnowledgeService struct {
	base     *advisor.KnowledgeBase
	activity *ActivityService
	now      func() time.Time

	mu        sync.RWMutex
	documents []domain.KnowledgeDocument
	scripts   []domain.Script
}

// NewKnowledgeService creates the service.
func NewKnowledgeService(base *advisor.KnowledgeBase, activity *ActivityService, scripts []domain.Script) *KnowledgeService {
	return &KnowledgeService{
		base:     base,
		activity: activity,
		now:      time.Now,
		scripts:  append([]domain.Script(nil), scripts...),
	}
}

// Upload adds a document to the advisor context. Evicted snippets drop
// their oldest metadata entries in step.
func (s *KnowledgeService) Upload(ctx context.Context, name, content string) (*domain.KnowledgeDocument, error) {
	name = strings.TrimSpace(name)
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(content) == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid document", details)
	}

	doc := domain.KnowledgeDocument{
		ID:         "doc-" + uuid.NewString()[:8],
		Name:       name,
		SizeBytes:  len(content),
		UploadedAt: s.now().UTC(),
	}

	s.mu.Lock()
	evicted := s.base.Add(content)
	s.documents = append(s.documents, doc)
	if evicted > len(s.documents) {
		evicted = len(s.documents)
	}
	s.documents = s.documents[evicted:]
	s.mu.Unlock()

	detail := fmt.Sprintf("%d bytes", doc.SizeBytes)
	if evicted > 0 {
		detail += fmt.Sprintf(", %d older documents evicted", evicted)
	}
	s.activity.Record(ctx, domain.ActionKnowledgeUpload, doc.Name, detail)
	return &doc, nil
}

// Documents lists uploaded documents oldest first.
func (s *KnowledgeService) Documents(_ context.Context) []domain.KnowledgeDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.KnowledgeDocument{}, s.documents...)
}

// Clear drops every document.
func (s *KnowledgeService) Clear(ctx context.Context) int {
	s.mu.Lock()
	removed := len(s.documents)
	s.base.Clear()
	s.documents = nil
	s.mu.Unlock()

	s.activity.Record(ctx, domain.ActionKnowledgeUpload, "Knowledge hub", fmt.Sprintf("Cleared %d documents", removed))
	return removed
}

// Scripts lists the canned responses, filtered by tag when given.
func (s *KnowledgeService) Scripts(_ context.Context, tag string) []domain.Script {
	tag = strings.ToLower(strings.TrimSpace(tag))
	out := make([]domain.Script, 0, len(s.scripts))
	for _, script := range s.scripts {
		if tag == "" || hasScriptTag(script, tag) {
			out = append(out, script)
		}
	}
	return out
}

func hasScriptTag(script domain.Script, tag string) bool {
	for _, t := range script.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}
