package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/envents/envents-server/internal/helpers"
	"github.com/envents/envents-server/internal/models"
)

// UserService fronts the auth store for signup, login and profile
// management.
type UserService struct {
	repo models.UserRepo
}

func NewUserService(repo models.UserRepo) *UserService {
	return &UserService{repo: repo}
}

func (u *UserService) CreateUser(ctx context.Context, user *models.User) (interface{}, error) {
	if user == nil {
		return nil, fmt.Errorf("user is nil")
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if !helpers.IsPasswordStrong(user.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters and mix letters and numbers")
	}
	return u.repo.CreateUser(ctx, user)
}

func (u *UserService) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	return u.repo.AuthenticateUser(ctx, email, password)
}

func (u *UserService) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	return u.repo.RefreshToken(ctx, refreshToken)
}

func (u *UserService) GetUser(ctx context.Context, id uuid.UUID, accessToken string) (*models.User, error) {
	return u.repo.GetUser(ctx, id, accessToken)
}

func (u *UserService) UpdateUser(ctx context.Context, updates map[string]interface{}, id uuid.UUID, accessToken string) (*models.User, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	// Identity and role fields are never client-writable.
	for _, k := range []string{"id", "email", "role", "created_at"} {
		delete(updates, k)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}
	return u.repo.UpdateUser(ctx, updates, id, accessToken)
}

func (u *UserService) DeleteUser(ctx context.Context, id uuid.UUID, accessToken string) error {
	return u.repo.DeleteUser(ctx, id, accessToken)
}
