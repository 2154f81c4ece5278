package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"behaviorOpt/domain"
	"behaviorOpt/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID       map[string]domain.User
	lastLogins map[string]time.Time
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUsers) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeOrgs struct {
	byID  map[string]domain.Organization
	users *fakeUsers
}

func (f *fakeOrgs) CreateWithOwner(ctx context.Context, org *domain.Organization, owner *domain.User) error {
	owner.OrganizationID = org.ID
	f.byID[org.ID] = *org
	f.users.byID[owner.ID] = *owner
	return nil
}

func (f *fakeOrgs) FindByID(ctx context.Context, id string) (domain.Organization, error) {
	o, ok := f.byID[id]
	if !ok {
		return domain.Organization{}, domain.ErrOrganizationNotFound
	}
	return o, nil
}

func (f *fakeOrgs) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	for _, o := range f.byID {
		if o.Subdomain == subdomain {
			return true, nil
		}
	}
	return false, nil
}

type fakeTokens struct {
	tokens map[string]string
	err    error
}

func (f *fakeTokens) Store(ctx context.Context, userID, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.tokens[userID] = token
	return nil
}

func (f *fakeTokens) Get(ctx context.Context, userID string) (string, error) {
	t, ok := f.tokens[userID]
	if !ok {
		return "", domain.ErrRefreshTokenNotFound
	}
	return t, nil
}

func (f *fakeTokens) Delete(ctx context.Context, userID string) error {
	delete(f.tokens, userID)
	return nil
}

var testTokens = TokenConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    30 * 24 * time.Hour,
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	svc    *authService
	users  *fakeUsers
	orgs   *fakeOrgs
	tokens *fakeTokens
}

func newHarness() harness {
	users := &fakeUsers{byID: map[string]domain.User{}, lastLogins: map[string]time.Time{}}
	h := harness{
		users:  users,
		orgs:   &fakeOrgs{byID: map[string]domain.Organization{}, users: users},
		tokens: &fakeTokens{tokens: map[string]string{}},
	}
	h.svc = NewAuthService(h.users, h.orgs, h.tokens, validator.New(), testTokens)
	h.svc.now = func() time.Time { return testNow }
	return h
}

func signupInput() SignupInput {
	return SignupInput{
		Email:            "  Ada@Example.com ",
		Password:         "correct horse",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		OrganizationName: "Acme  Growth Labs",
	}
}

func TestSignup(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	session, err := h.svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	org := session.Organization
	require.Equal(t, "Acme  Growth Labs", org.Name)
	require.Equal(t, "acme-growth-labs", org.Subdomain)
	require.Equal(t, domain.PlanTierFree, org.PlanTier)
	require.Equal(t, 10000, org.MonthlyEventLimit)
	require.Equal(t, testNow.Add(14*24*time.Hour), *org.TrialEndsAt)

	user := session.User
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, domain.RoleOwner, user.Role)
	require.Equal(t, org.ID, user.OrganizationID)
	require.NotEqual(t, "correct horse", user.PasswordHash)
	require.True(t, utils.CheckPassword("correct horse", user.PasswordHash))

	claims, err := utils.ParseJWT(testTokens.AccessSecret, session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, org.ID, claims.OrganizationID)
	require.Equal(t, domain.RoleOwner, claims.Role)
	require.Equal(t, int64(900), session.ExpiresIn)

	require.Equal(t, session.RefreshToken, h.tokens.tokens[user.ID])
	_, err = utils.ParseJWT(testTokens.AccessSecret, session.RefreshToken)
	require.Error(t, err)

	t.Run("email already registered", func(t *testing.T) {
		in := signupInput()
		in.Email = "ADA@example.com"
		in.OrganizationName = "Other"
		_, err := h.svc.Signup(ctx, in)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("organization name taken", func(t *testing.T) {
		in := signupInput()
		in.Email = "grace@example.com"
		in.OrganizationName = "acme growth labs"
		_, err := h.svc.Signup(ctx, in)
		require.ErrorIs(t, err, ErrOrganizationTaken)
	})
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	in := signupInput()
	in.Email = "not-an-email"
	_, err := h.svc.Signup(ctx, in)
	require.ErrorIs(t, err, ErrInvalidSignup)

	in = signupInput()
	in.Password = "short"
	_, err = h.svc.Signup(ctx, in)
	require.ErrorIs(t, err, ErrInvalidSignup)

	in = signupInput()
	in.OrganizationName = "   "
	_, err = h.svc.Signup(ctx, in)
	require.ErrorIs(t, err, ErrInvalidSignup)

	require.Empty(t, h.orgs.byID)
}

func TestLogin(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	signed, err := h.svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	userID := signed.User.ID

	session, err := h.svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, userID, session.User.ID)
	require.Equal(t, signed.Organization.ID, session.Organization.ID)
	require.Equal(t, testNow, h.users.lastLogins[userID])
	require.Equal(t, testNow, *session.User.LastLoginAt)
	require.Equal(t, session.RefreshToken, h.tokens.tokens[userID])

	_, err = h.svc.Login(ctx, "ada@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.svc.Login(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFailsWhenRefreshStoreDown(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	h.tokens.err = errors.New("redis down")
	_, err = h.svc.Login(ctx, "ada@example.com", "correct horse")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	session, err := h.svc.Signup(ctx, signupInput())
	require.NoError(t, err)
	userID := session.User.ID

	// promotions are picked up on refresh
	u := h.users.byID[userID]
	u.Role = domain.RoleAdmin
	h.users.byID[userID] = u

	access, err := h.svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	claims, err := utils.ParseJWT(testTokens.AccessSecret, access)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, session.Organization.ID, claims.OrganizationID)
	require.Equal(t, domain.RoleAdmin, claims.Role)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := h.svc.Refresh(ctx, session.AccessToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("superseded token", func(t *testing.T) {
		h.tokens.tokens[userID] = "newer-token"
		_, err := h.svc.Refresh(ctx, session.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
		h.tokens.tokens[userID] = session.RefreshToken
	})

	t.Run("revoked by logout", func(t *testing.T) {
		require.NoError(t, h.svc.Logout(ctx, userID))
		_, err := h.svc.Refresh(ctx, session.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.svc.Refresh(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestMe(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	session, err := h.svc.Signup(ctx, signupInput())
	require.NoError(t, err)

	profile, err := h.svc.Me(ctx, session.User.ID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", profile.User.Email)
	require.Equal(t, "acme-growth-labs", profile.Organization.Subdomain)

	_, err = h.svc.Me(ctx, "user-404")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSubdomain(t *testing.T) {
	require.Equal(t, "acme", Subdomain("Acme"))
	require.Equal(t, "acme-growth-labs", Subdomain("  Acme\tGrowth   Labs "))
	require.Equal(t, "", Subdomain("   "))
}
