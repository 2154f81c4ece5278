package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"behaviorOpt/business/auth"
	"behaviorOpt/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	signup    auth.SignupInput
	loggedOut string
}

func (f *fakeAuthService) Signup(ctx context.Context, in auth.SignupInput) (auth.Session, error) {
	f.signup = in
	if in.Email == "taken@example.com" {
		return auth.Session{}, auth.ErrEmailTaken
	}
	return auth.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         domain.User{ID: "user-1", Email: in.Email, PasswordHash: "secret-hash"},
		Organization: domain.Organization{ID: "org-1", Name: in.OrganizationName},
	}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.Session, error) {
	if password != "correct horse" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	return auth.Session{AccessToken: "access"}, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken != "refresh" {
		return "", auth.ErrInvalidRefreshToken
	}
	return "new-access", nil
}

func (f *fakeAuthService) Logout(ctx context.Context, userID string) error {
	f.loggedOut = userID
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context, userID string) (auth.Profile, error) {
	if userID != "user-1" {
		return auth.Profile{}, domain.ErrUserNotFound
	}
	return auth.Profile{User: domain.User{ID: userID}}, nil
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc)

	body := `{"email":"ada@example.com","password":"correct horse","first_name":"Ada","last_name":"Lovelace","organization_name":"Acme"}`
	c, rec := newContext(http.MethodPost, "/api/v1/auth/signup", body)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Acme", svc.signup.OrganizationName)
	require.Contains(t, rec.Body.String(), `"refresh_token":"refresh"`)
	require.NotContains(t, rec.Body.String(), "secret-hash")

	t.Run("short password", func(t *testing.T) {
		body := `{"email":"ada@example.com","password":"short","first_name":"Ada","last_name":"L","organization_name":"Acme"}`
		c, rec := newContext(http.MethodPost, "/api/v1/auth/signup", body)
		require.NoError(t, h.Signup(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email taken", func(t *testing.T) {
		body := `{"email":"taken@example.com","password":"correct horse","first_name":"Ada","last_name":"L","organization_name":"Acme"}`
		c, rec := newContext(http.MethodPost, "/api/v1/auth/signup", body)
		require.NoError(t, h.Signup(c))
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_StatusCodes(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc)

	cases := []struct {
		name    string
		handler echo.HandlerFunc
		body    string
		want    int
	}{
		{"login", h.Login, `{"email":"ada@example.com","password":"correct horse"}`, http.StatusOK},
		{"login wrong password", h.Login, `{"email":"ada@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"login missing email", h.Login, `{"password":"correct horse"}`, http.StatusBadRequest},
		{"refresh", h.Refresh, `{"refresh_token":"refresh"}`, http.StatusOK},
		{"refresh revoked", h.Refresh, `{"refresh_token":"stale"}`, http.StatusUnauthorized},
		{"refresh missing token", h.Refresh, `{}`, http.StatusBadRequest},
		{"me", h.Me, "", http.StatusOK},
		{"logout", h.Logout, "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/", tc.body)
			require.NoError(t, tc.handler(c))
			require.Equal(t, tc.want, rec.Code)
		})
	}

	require.Equal(t, "user-1", svc.loggedOut)
}

func TestStatusForAuthErrors(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, statusFor(auth.ErrInvalidCredentials))
	require.Equal(t, http.StatusConflict, statusFor(auth.ErrOrganizationTaken))
	require.Equal(t, http.StatusBadRequest, statusFor(auth.ErrInvalidSignup))
	require.Equal(t, http.StatusNotFound, statusFor(domain.ErrOrganizationNotFound))
	require.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
