package serviceimpl

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type AuthServiceImpl struct {
	userRepo   repositories.UserRepository
	tokens     *utils.TokenManager
	bcryptCost int
	// hash ที่ใช้เทียบตอนไม่เจอ email ให้เวลาตอบใกล้เคียงกับกรณีรหัสผ่านผิด
	dummyHash []byte
}

func NewAuthService(userRepo repositories.UserRepository, tokens *utils.TokenManager, bcryptCost int) services.AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcryptCost)
	if err != nil {
		logger.Warn("Failed to prepare dummy password hash", "error", err)
	}
	return &AuthServiceImpl{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing != nil:
		logger.WarnContext(ctx, "Email already exists", "email", req.Email)
		return nil, apperror.AlreadyExists("User already exists with email: " + req.Email)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		logger.ErrorContext(ctx, "Failed to look up email", "error", err)
		return nil, apperror.Service("failed to look up user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, apperror.Service("failed to hash password", err)
	}

	user := dto.RegisterRequestToUser(req, string(hashed))
	if err := s.userRepo.Create(ctx, user); err != nil {
		// unique index ชนกันเมื่อมีคนสมัครอีเมลเดียวกันพร้อมกัน
		if errors.Is(err, repositories.ErrConflict) {
			logger.WarnContext(ctx, "Email already exists (concurrent insert)", "email", req.Email)
			return nil, apperror.AlreadyExists("User already exists with email: " + req.Email)
		}
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, apperror.Service("failed to create user", err)
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email, "name", user.FullName())
	return user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.ErrorContext(ctx, "Failed to look up email", "error", err)
			return nil, apperror.Service("failed to look up user", err)
		}
		if s.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		}
		logger.WarnContext(ctx, "Login failed - email not found", "email", req.Email)
		return nil, apperror.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return nil, apperror.InvalidCredentials()
	}

	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return nil, apperror.Service("failed to issue token", err)
	}

	logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn}, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		logger.ErrorContext(ctx, "Failed to load profile", "user_id", userID, "error", err)
		return nil, apperror.Service("failed to load user", err)
	}
	return user, nil
}
