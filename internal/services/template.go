package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
)

var ErrTemplateNotFound = errors.New("template not found")

type TemplateService struct {
	api *apiclient.Client
}

func NewTemplateService(api *apiclient.Client) *TemplateService {
	return &TemplateService{api: api}
}

func (s *TemplateService) GetTemplates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := s.api.Get(ctx, "/briefs/templates", &templates, apiclient.Auth); err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *TemplateService) GetTemplateByName(ctx context.Context, name string) (*models.Template, error) {
	var template models.Template
	if err := s.api.Get(ctx, "/briefs/templates/"+url.PathEscape(name), &template, apiclient.Auth); err != nil {
		return nil, err
	}
	return &template, nil
}

// GetTemplate finds a template by id in the full list; the backend has no
// by-id lookup.
func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (*models.Template, error) {
	templates, err := s.GetTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		if templates[i].ID == templateID {
			return &templates[i], nil
		}
	}
	return nil, ErrTemplateNotFound
}

// CreateBriefFromTemplate posts a whole new template.
func (s *TemplateService) CreateBriefFromTemplate(ctx context.Context, template models.Template) (map[string]interface{}, error) {
	template.ID = ""
	normalizeTemplate(&template)
	out := map[string]interface{}{}
	if err := s.api.Post(ctx, "/briefs/from-template", template, &out, apiclient.Auth); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBriefFromTemplate replaces the stored template with the full payload;
// there is no partial update.
func (s *TemplateService) UpdateBriefFromTemplate(ctx context.Context, template models.Template) (map[string]interface{}, error) {
	if template.ID == "" {
		return nil, errors.New("template id is required for update")
	}
	normalizeTemplate(&template)
	out := map[string]interface{}{}
	if err := s.api.Put(ctx, "/briefs/from-template", template, &out, apiclient.Auth); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeTemplate(t *models.Template) {
	t.TemplateName = strings.TrimSpace(t.TemplateName)
	t.Title = strings.TrimSpace(t.Title)
	if t.Sections == nil {
		t.Sections = []models.Section{}
	}
}
