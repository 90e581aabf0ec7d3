package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

func TestTokenPairRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15, 60)
	company := "acme"
	user := &domain.User{ID: "u1", Role: domain.RoleCompanyAdmin, CompanyID: &company}

	pair, err := tm.IssuePair(user)
	require.NoError(t, err)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := tm.ParseToken(pair.AccessToken, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, domain.RoleCompanyAdmin, claims.Role)
	require.NotNil(t, claims.CompanyID)
	assert.Equal(t, "acme", *claims.CompanyID)

	_, err = tm.ParseToken(pair.RefreshToken, domain.TokenKindAccess)
	assert.ErrorIs(t, err, ErrWrongTokenKind)

	_, err = tm.ParseToken(pair.RefreshToken, domain.TokenKindRefresh)
	assert.NoError(t, err)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	tm := NewTokenManager("secret", 1, 1)
	user := &domain.User{ID: "u1", Role: domain.RoleCoach}
	token, _, err := tm.GenerateAccessToken(user)
	require.NoError(t, err)

	other := NewTokenManager("other", 1, 1)
	_, err = other.ParseToken(token, domain.TokenKindAccess)
	assert.Error(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token, domain.TokenKindAccess)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.Error(t, ComparePassword(hash, "wrong"))

	assert.False(t, NeedsRehash(hash, bcrypt.MinCost))
	assert.True(t, NeedsRehash(hash, bcrypt.MinCost+1))
	assert.True(t, NeedsRehash("not-a-hash", bcrypt.MinCost))

	_, err = HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func newProtectedApp(t *testing.T, guards ...fiber.Handler) (*fiber.App, *TokenManager, repository.UserRepository) {
	t.Helper()
	users := repository.NewMemory(nil).Users()
	tm := NewTokenManager("secret", 15, 60)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	handlers := append([]fiber.Handler{NewAuthMiddleware(tm, users).Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.UserID())
	})
	app.Get("/protected", handlers...)
	return app, tm, users
}

func doGet(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app, tm, users := newProtectedApp(t)
	user := &domain.User{Email: "coach@example.com", Role: domain.RoleCoach, Status: domain.UserStatusActive}
	require.NoError(t, users.Create(context.Background(), user))

	pair, err := tm.IssuePair(user)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "garbage"))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, pair.RefreshToken))
	assert.Equal(t, http.StatusOK, doGet(t, app, pair.AccessToken))

	user.Status = domain.UserStatusSuspended
	require.NoError(t, users.Update(context.Background(), user))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, pair.AccessToken))
}

func TestRequireRole(t *testing.T) {
	app, tm, users := newProtectedApp(t, RequireRole(domain.RolePlatformAdmin))
	coach := &domain.User{Email: "c@example.com", Role: domain.RoleCoach, Status: domain.UserStatusActive}
	admin := &domain.User{Email: "a@example.com", Role: domain.RolePlatformAdmin, Status: domain.UserStatusActive}
	require.NoError(t, users.Create(context.Background(), coach))
	require.NoError(t, users.Create(context.Background(), admin))

	coachToken, _, err := tm.GenerateAccessToken(coach)
	require.NoError(t, err)
	adminToken, _, err := tm.GenerateAccessToken(admin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(t, app, coachToken))
	assert.Equal(t, http.StatusOK, doGet(t, app, adminToken))
}
