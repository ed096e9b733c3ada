package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/form-service/internal/auth"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/google/uuid"
)

type authService struct {
	repo      repositories.Repository
	issuer    auth.TokenIssuer
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

// NewAuthService creates the local account service. issuer is nil when tokens
// come from an external identity provider.
func NewAuthService(deps *Dependencies) AuthService {
	return &authService{
		repo:      deps.Repo,
		issuer:    deps.Issuer,
		validator: deps.Validator,
		logger:    deps.Logger,
		opLogger:  NewServiceLogger(deps.Logger, LogConfig{Service: "form-service", Component: "auth"}),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (result *AuthResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "register", "")
	defer func() { op.LogResult(0, "user", err) }()

	if s.issuer == nil {
		return nil, ErrTokenIssuing
	}
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, UserID: user.ID}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (result *AuthResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "login", "")
	defer func() { op.LogResult(0, "user", err) }()

	if s.issuer == nil {
		return nil, ErrTokenIssuing
	}
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.repo.User().UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "Failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, UserID: user.ID}, nil
}
