package services

import (
	"context"

	"todo-api/domain/dto"
	"todo-api/domain/models"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	// Authenticate fails identically for an unknown email and a wrong password.
	Authenticate(ctx context.Context, req *dto.LoginRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}
