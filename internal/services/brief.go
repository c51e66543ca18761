package services

import (
	"context"
	"net/url"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
)

type BriefService struct {
	api *apiclient.Client
}

func NewBriefService(api *apiclient.Client) *BriefService {
	return &BriefService{api: api}
}

func (s *BriefService) GetBrief(ctx context.Context, briefID string) (*models.Brief, error) {
	var resp models.BriefResponse
	if err := s.api.Get(ctx, "/briefs/"+url.PathEscape(briefID), &resp, apiclient.Auth); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *BriefService) UpdateFieldValue(ctx context.Context, briefID, fieldID string, value interface{}) error {
	endpoint := "/briefs/" + url.PathEscape(briefID) + "/fields/" + url.PathEscape(fieldID)
	return s.api.Put(ctx, endpoint, map[string]interface{}{"value": value}, nil, apiclient.Auth)
}

// GenerateSectionValues asks the backend to extract values for a section
// from previously uploaded documents.
func (s *BriefService) GenerateSectionValues(ctx context.Context, req models.GenerateRequest) (*models.GenerateResult, error) {
	var resp models.GenerateResponse
	if err := s.api.Post(ctx, "/fieldvalue/section/generate", req, &resp, apiclient.Auth); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
