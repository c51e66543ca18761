package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
)

type SubmissionService struct {
	api *apiclient.Client
}

func NewSubmissionService(api *apiclient.Client) *SubmissionService {
	return &SubmissionService{api: api}
}

// GetTemplateSubmissions lists every template with the users who submitted
// against it.
func (s *SubmissionService) GetTemplateSubmissions(ctx context.Context) ([]models.TemplateSubmission, error) {
	var templates []models.TemplateSubmission
	if err := s.api.Get(ctx, "/briefs/templates/preview", &templates, apiclient.Auth); err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *SubmissionService) GetTemplateSubmission(ctx context.Context, templateID string) (*models.TemplateSubmission, error) {
	templates, err := s.GetTemplateSubmissions(ctx)
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

// GetUserSubmission loads one user's brief for a template. The payload is
// accepted both bare and wrapped in {"data": ...}.
func (s *SubmissionService) GetUserSubmission(ctx context.Context, templateID, userID string) (*models.UserSubmission, error) {
	endpoint := fmt.Sprintf("/briefs/templates/%s/submissions/%s", url.PathEscape(templateID), url.PathEscape(userID))
	var raw json.RawMessage
	if err := s.api.Get(ctx, endpoint, &raw, apiclient.Auth); err != nil {
		return nil, err
	}

	var wrapped struct {
		Data *models.UserSubmission `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var submission models.UserSubmission
	if err := json.Unmarshal(raw, &submission); err != nil {
		return nil, fmt.Errorf("failed to decode user submission: %w", err)
	}
	return &submission, nil
}
