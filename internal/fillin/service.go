package fillin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brief-portal/internal/logger"
	"brief-portal/internal/metrics"
	"brief-portal/internal/models"
	"brief-portal/internal/services"
)

var (
	ErrNoDocuments     = errors.New("no documents uploaded")
	ErrFieldNotFound   = errors.New("field not found")
	ErrSectionNotFound = errors.New("section not found")
)

// BriefAPI is the slice of the backend the fill-in page talks to.
type BriefAPI interface {
	GetBrief(ctx context.Context, briefID string) (*models.Brief, error)
	UpdateFieldValue(ctx context.Context, briefID, fieldID string, value interface{}) error
	GenerateSectionValues(ctx context.Context, req models.GenerateRequest) (*models.GenerateResult, error)
}

type Uploader interface {
	UploadBatch(ctx context.Context, briefID, sectionID string, files []services.StagedFile) ([]string, error)
}

type Service struct {
	briefs   BriefAPI
	uploads  Uploader
	registry *Registry
	log      *logger.Logger
	now      func() time.Time
}

func NewService(briefs BriefAPI, uploads Uploader, registry *Registry, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		briefs:   briefs,
		uploads:  uploads,
		registry: registry,
		log:      log.With("service", "fillin"),
		now:      time.Now,
	}
}

// Open returns the session's editor for a brief, loading it from the
// backend on first use.
func (s *Service) Open(ctx context.Context, sessionID, briefID string) (*Editor, error) {
	if e, ok := s.registry.Get(sessionID, briefID); ok {
		e.Touch(s.now())
		return e, nil
	}
	brief, err := s.briefs.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	// a concurrent Open may have registered first; its editor wins
	e, loaded := s.registry.GetOrPut(sessionID, briefID, NewEditor(*brief, s.now()))
	if loaded {
		e.Touch(s.now())
	}
	return e, nil
}

// Refresh reloads the brief from the backend into the editor.
func (s *Service) Refresh(ctx context.Context, sessionID, briefID string) (*Editor, error) {
	brief, err := s.briefs.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	e, loaded := s.registry.GetOrPut(sessionID, briefID, NewEditor(*brief, s.now()))
	if loaded {
		e.Reload(*brief)
		e.Touch(s.now())
	}
	return e, nil
}

// SaveField applies an edit optimistically and persists it. A failure of
// the newest edit rolls the field back; a completion overtaken by a newer
// edit is dropped.
func (s *Service) SaveField(ctx context.Context, sessionID, briefID, fieldID, raw string) (Outcome, error) {
	e, err := s.Open(ctx, sessionID, briefID)
	if err != nil {
		return Stale, err
	}
	field, ok := e.Field(fieldID)
	if !ok {
		return Stale, ErrFieldNotFound
	}

	value := ParseInput(field, raw)
	seq := e.BeginEdit(fieldID, value)
	saveErr := s.briefs.UpdateFieldValue(ctx, briefID, fieldID, value)
	outcome := e.CompleteEdit(fieldID, seq, saveErr)
	metrics.FieldSavesTotal.WithLabelValues(outcome.String()).Inc()

	if outcome == RolledBack {
		s.log.Warn("field save failed", "brief_id", briefID, "field_id", fieldID, "error", saveErr)
		return outcome, fmt.Errorf("failed to update field: %w", saveErr)
	}
	return outcome, nil
}

// Upload runs the files of one section through the upload protocol in
// order. Keys of files that made it are kept even when a later one fails.
func (s *Service) Upload(ctx context.Context, sessionID, briefID, sectionID string, files []services.StagedFile) ([]string, error) {
	e, err := s.Open(ctx, sessionID, briefID)
	if err != nil {
		s.discard(files)
		return nil, err
	}
	if !e.HasSection(sectionID) {
		s.discard(files)
		return nil, ErrSectionNotFound
	}
	keys, err := s.uploads.UploadBatch(ctx, briefID, sectionID, files)
	e.AddUploadedKeys(sectionID, keys)
	return keys, err
}

func (s *Service) discard(files []services.StagedFile) {
	if d, ok := s.uploads.(interface{ Discard(services.StagedFile) }); ok {
		for _, f := range files {
			d.Discard(f)
		}
	}
}

// Generate asks the backend to extract the section's values from the
// uploaded documents, merges them and reloads the brief.
func (s *Service) Generate(ctx context.Context, sessionID, briefID, sectionID string) (*models.GenerateResult, error) {
	e, err := s.Open(ctx, sessionID, briefID)
	if err != nil {
		return nil, err
	}
	keys := e.UploadedKeys(sectionID)
	if len(keys) == 0 {
		return nil, ErrNoDocuments
	}

	result, err := s.briefs.GenerateSectionValues(ctx, models.GenerateRequest{SectionID: sectionID, S3Keys: keys})
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to generate with AI: %w", err)
	}
	metrics.GenerationsTotal.WithLabelValues("ok").Inc()

	merged := e.MergeExtracted(sectionID, result.ExtractedData)
	s.log.Info("section generated", "brief_id", briefID, "section_id", sectionID, "merged", merged, "updated", result.SaveResults.Updated)

	if brief, err := s.briefs.GetBrief(ctx, briefID); err != nil {
		s.log.Warn("failed to reload brief after generation", "brief_id", briefID, "error", err)
	} else {
		e.Reload(*brief)
	}
	return result, nil
}

// EvictIdle drops editors untouched for longer than idle.
func (s *Service) EvictIdle(idle time.Duration) int {
	return s.registry.Evict(idle, s.now())
}
