package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	api *apiclient.Client
}

func NewUserService(api *apiclient.Client) *UserService {
	return &UserService{api: api}
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.Get(ctx, "/users", &users, apiclient.Auth); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	var user models.User
	if err := s.api.Post(ctx, "/users", req, &user, apiclient.Auth); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sends only the fields that are set; an empty password leaves
// the current one unchanged.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	var user models.User
	if err := s.api.Put(ctx, "/users/"+url.PathEscape(userID), req, &user, apiclient.Auth); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.api.Delete(ctx, "/users/"+url.PathEscape(userID), nil, apiclient.Auth)
}
