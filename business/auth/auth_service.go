package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"
	"behaviorOpt/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrOrganizationTaken   = errors.New("organization name already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidSignup       = errors.New("invalid signup")
)

const (
	MinPasswordLength        = 8
	trialPeriod              = 14 * 24 * time.Hour
	defaultMonthlyEventLimit = 10000
)

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type OrganizationRepository interface {
	CreateWithOwner(ctx context.Context, org *domain.Organization, owner *domain.User) error
	FindByID(ctx context.Context, id string) (domain.Organization, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type SignupInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

type Session struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresIn    int64               `json:"expires_in"`
	User         domain.User         `json:"user"`
	Organization domain.Organization `json:"organization"`
}

type Profile struct {
	User         domain.User         `json:"user"`
	Organization domain.Organization `json:"organization"`
}

type authService struct {
	userRepo  UserRepository
	orgRepo   OrganizationRepository
	tokenRepo RefreshTokenRepository
	validate  *validator.Validate
	tokens    TokenConfig
	now       func() time.Time
}

func NewAuthService(
	userRepo UserRepository,
	orgRepo OrganizationRepository,
	tokenRepo RefreshTokenRepository,
	validate *validator.Validate,
	tokens TokenConfig,
) *authService {
	return &authService{
		userRepo:  userRepo,
		orgRepo:   orgRepo,
		tokenRepo: tokenRepo,
		validate:  validate,
		tokens:    tokens,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subdomain derives the organization subdomain from its display name:
// lower case, whitespace runs collapsed to a single dash.
func Subdomain(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Signup creates an organization on the free plan with a 14 day trial and
// makes the new user its owner.
func (s *authService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, fmt.Errorf("context error: %w", err)
	}

	email := normalizeEmail(in.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return Session{}, fmt.Errorf("%w: invalid email format", ErrInvalidSignup)
	}
	if len(in.Password) < MinPasswordLength {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidSignup, MinPasswordLength)
	}
	subdomain := Subdomain(in.OrganizationName)
	if subdomain == "" {
		return Session{}, fmt.Errorf("%w: organization name is required", ErrInvalidSignup)
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return Session{}, ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		logger.Error("Failed to look up email on signup", err)
		return Session{}, err
	}

	taken, err := s.orgRepo.SubdomainExists(ctx, subdomain)
	if err != nil {
		logger.Error("Failed to check organization subdomain", err)
		return Session{}, err
	}
	if taken {
		return Session{}, ErrOrganizationTaken
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSignup, err)
	}

	trialEnds := s.now().Add(trialPeriod)
	org := domain.Organization{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.OrganizationName),
		Subdomain:         subdomain,
		PlanTier:          domain.PlanTierFree,
		MonthlyEventLimit: defaultMonthlyEventLimit,
		TrialEndsAt:       &trialEnds,
	}
	owner := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleOwner,
	}

	if err := s.orgRepo.CreateWithOwner(ctx, &org, &owner); err != nil {
		logger.Error("Failed to create organization", err)
		return Session{}, err
	}

	logger.Info("Organization created", "organization_id", org.ID, "user_id", owner.ID)
	return s.issueSession(ctx, owner, org)
}

func (s *authService) Login(ctx context.Context, email, password string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		logger.Error("Failed to look up user on login", err)
		return Session{}, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		logger.Warn("Rejected login", "user_id", user.ID)
		return Session{}, ErrInvalidCredentials
	}

	org, err := s.orgRepo.FindByID(ctx, user.OrganizationID)
	if err != nil {
		logger.Error("Failed to load organization on login", "user_id", user.ID, "error", err)
		return Session{}, err
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	return s.issueSession(ctx, user, org)
}

func (s *authService) issueSession(ctx context.Context, user domain.User, org domain.Organization) (Session, error) {
	access, err := utils.GenerateJWT(s.tokens.AccessSecret, user.ID, org.ID, user.Role, s.tokens.AccessTTL)
	if err != nil {
		logger.Error("Failed to generate access token", err)
		return Session{}, err
	}

	refresh, err := utils.GenerateJWT(s.tokens.RefreshSecret, user.ID, org.ID, user.Role, s.tokens.RefreshTTL)
	if err != nil {
		logger.Error("Failed to generate refresh token", err)
		return Session{}, err
	}

	if err := s.tokenRepo.Store(ctx, user.ID, refresh, s.tokens.RefreshTTL); err != nil {
		logger.Error("Failed to store refresh token", "user_id", user.ID, "error", err)
		return Session{}, err
	}

	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL.Seconds()),
		User:         user,
		Organization: org,
	}, nil
}

// Refresh exchanges the user's current refresh token for a new access token.
// The role is read from the user record, not from the refresh token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	claims, err := utils.ParseJWT(s.tokens.RefreshSecret, refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	stored, err := s.tokenRepo.Get(ctx, claims.UserID)
	if errors.Is(err, domain.ErrRefreshTokenNotFound) {
		return "", ErrInvalidRefreshToken
	}
	if err != nil {
		logger.Error("Failed to read refresh token", "user_id", claims.UserID, "error", err)
		return "", err
	}
	if stored != refreshToken {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", err
	}

	return utils.GenerateJWT(s.tokens.AccessSecret, user.ID, user.OrganizationID, user.Role, s.tokens.AccessTTL)
}

// Logout revokes the user's refresh token. Access tokens stay valid until
// they expire.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.tokenRepo.Delete(ctx, userID); err != nil {
		logger.Error("Failed to revoke refresh token", "user_id", userID, "error", err)
		return err
	}

	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	org, err := s.orgRepo.FindByID(ctx, user.OrganizationID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{User: user, Organization: org}, nil
}
