package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"growup-backend/auth"
	"growup-backend/config"
	"growup-backend/database"
	"growup-backend/models"
)

const invalidLogin = "Invalid email or password. Please try again."

// LoginResult is returned by every email/password login.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService struct {
	cfg      *config.Config
	users    database.Collection[models.User]
	appLinks *AppLinkService
	logger   *zap.Logger
}

func NewAuthService(cfg *config.Config, users database.Collection[models.User], appLinks *AppLinkService, logger *zap.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		appLinks: appLinks,
		logger:   logger.With(zap.String("service", "auth")),
	}
}

// Login accepts any user with a matching email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.lookup(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		return nil, s.deny(email, "wrong password")
	}
	return s.issue(u)
}

// LoginUser admits non-admin users. Besides their own password they may use
// the site-wide password kept on the site app link.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.lookup(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleAdmin {
		return nil, s.deny(email, "admin on user login")
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		ok, err := s.appLinks.CheckPassword(ctx, s.cfg.SiteAppName, password)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, s.deny(email, "wrong password")
		}
	}
	return s.issue(u)
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.lookup(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		return nil, s.deny(email, "not an admin")
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		return nil, s.deny(email, "wrong password")
	}
	return s.issue(u)
}

// LoginLeader exchanges a portal password for the portals it opens.
func (s *AuthService) LoginLeader(ctx context.Context, password string) ([]models.PortalAccess, error) {
	if password == "" {
		return nil, models.NewValidationError("password", "password is a required field.")
	}
	portals, err := s.appLinks.Matching(ctx, password)
	if err != nil {
		return nil, err
	}
	if len(portals) == 0 {
		s.logger.Warn("leader login failed: password matches no portal")
		return nil, models.NewAuthenticationError("Invalid credentials provided.")
	}
	return portals, nil
}

func (s *AuthService) lookup(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("email", "email and password are required.")
	}
	u, err := s.users.FindOne(ctx, database.Eq("email", email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, s.deny(email, "user not found")
	}
	if err != nil {
		s.logger.Error("failed to look up user", zap.Error(err))
		return nil, models.NewInternalError("An unexpected error occurred.", err)
	}
	return u, nil
}

func (s *AuthService) issue(u *models.User) (*LoginResult, error) {
	token, err := auth.GenerateToken(s.cfg, u.ID.Hex(), u.Role)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return nil, models.NewInternalError("Failed to generate token", err)
	}
	s.logger.Info("user logged in", zap.String("userId", u.ID.Hex()), zap.String("role", u.Role))
	return &LoginResult{User: u.Public(), Token: token}, nil
}

// deny logs the real reason and returns the generic failure.
func (s *AuthService) deny(email, reason string) error {
	s.logger.Warn("login failed", zap.String("email", email), zap.String("reason", reason))
	return models.NewAuthenticationError(invalidLogin)
}
