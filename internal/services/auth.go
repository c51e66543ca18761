package services

import (
	"context"
	"fmt"
	"strings"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
)

type AuthService struct {
	api *apiclient.Client
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	var resp models.LoginResponse
	if err := s.api.Post(ctx, "/users/login", req, &resp, apiclient.RequestOptions{}); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response did not include a token")
	}
	return &resp, nil
}

// Register creates the account and signs it in right away.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	var created models.User
	if err := s.api.Post(ctx, "/users/register", req, &created, apiclient.RequestOptions{}); err != nil {
		return nil, err
	}
	return s.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
}
