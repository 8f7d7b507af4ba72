package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"
	"roomcast/internal/infrastructure/repositories/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key"

func testAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:  testSecret,
		Issuer:     "roomcast-test",
		TokenTTL:   24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newTestAuthService(t *testing.T) (*authService, ports.UserRepository) {
	t.Helper()

	users := memory.NewMemoryUserRepository()
	denylist := memory.NewMemoryTokenDenylist(time.Minute)
	t.Cleanup(denylist.Close)

	svc, err := NewAuthService(testAuthConfig(), users, denylist, nil, nil)
	require.NoError(t, err)
	return svc.(*authService), users
}

func TestNewAuthService_MissingSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = ""

	svc, err := NewAuthService(cfg, memory.NewMemoryUserRepository(), nil, nil, nil)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRegister_TokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "  Ann ", "Ann@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, result.TokenType)
	assert.Equal(t, "Ann", result.User.Name)
	assert.Equal(t, "ann@example.com", result.User.Email)
	assert.NotEmpty(t, result.User.ID)

	claims, err := svc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, string(result.User.ID), claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "roomcast-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	user, err := users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Ann", "ANN@example.com", "secret2")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	stored, err := users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, stored.ID)
	assert.Equal(t, "Ann", stored.Name)
}

func TestRegister_InvalidInputListsEveryField(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "A", "not-an-email", "123")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "name")
	assert.Contains(t, validationErr.Fields, "email")
	assert.Contains(t, validationErr.Fields, "password")
}

func TestRegister_StorageFailure(t *testing.T) {
	users := &mockUserRepository{}
	storageErr := domain.NewStorageError("create user", errors.New("connection refused"))
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(storageErr)

	svc, err := NewAuthService(testAuthConfig(), users, nil, nil, nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")

	var se *domain.StorageError
	assert.ErrorAs(t, err, &se)
	users.AssertExpectations(t)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := svc.Authenticate(ctx, " ANN@example.com ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ann@example.com", "wrong-secret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
		assert.False(t, domain.IsNotFound(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Fields, 2)
	})
}

func TestAuthenticate_LongPasswordsDifferBeyond72Bytes(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	prefix := strings.Repeat("p", 100)
	_, err := svc.Register(ctx, "Ann", "ann@example.com", prefix+"-one")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ann@example.com", prefix+"-two")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = svc.Authenticate(ctx, "ann@example.com", prefix+"-one")
	assert.NoError(t, err)
}

func TestVerifyToken_Rejections(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user := &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	valid, _, err := svc.IssueToken(user)
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret"
	other, err := NewAuthService(otherCfg, memory.NewMemoryUserRepository(), nil, nil, nil)
	require.NoError(t, err)
	wrongSecret, _, err := other.IssueToken(user)
	require.NoError(t, err)

	issuerCfg := testAuthConfig()
	issuerCfg.Issuer = "someone-else"
	foreign, err := NewAuthService(issuerCfg, memory.NewMemoryUserRepository(), nil, nil, nil)
	require.NoError(t, err)
	wrongIssuer, _, err := foreign.IssueToken(user)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, ports.SessionClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "roomcast-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", domain.ErrUnauthenticated},
		{"garbage", "not.a.token", domain.ErrInvalidToken},
		{"tampered", valid + "x", domain.ErrInvalidToken},
		{"wrong secret", wrongSecret, domain.ErrInvalidToken},
		{"wrong issuer", wrongIssuer, domain.ErrInvalidToken},
		{"none algorithm", noneToken, domain.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.VerifyToken(ctx, tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, _, err := svc.IssueToken(&domain.User{ID: "u1", Email: "ann@example.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.VerifyToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// a fresh login is unaffected
	again, err := svc.Authenticate(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, again.Token)
	assert.NoError(t, err)
}

func TestVerifyToken_DenylistFailureIsStorageError(t *testing.T) {
	denylist := &mockDenylist{}
	denylist.On("IsRevoked", mock.Anything, mock.Anything).
		Return(false, domain.NewStorageError("check revoked token", errors.New("timeout")))

	svc, err := NewAuthService(testAuthConfig(), memory.NewMemoryUserRepository(), denylist, nil, nil)
	require.NoError(t, err)

	token, _, err := svc.IssueToken(&domain.User{ID: "u1"})
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), token)
	var se *domain.StorageError
	assert.ErrorAs(t, err, &se)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_WithoutDenylist(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(), memory.NewMemoryUserRepository(), nil, nil, nil)
	require.NoError(t, err)

	claims := &ports.SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	assert.ErrorIs(t, svc.Logout(context.Background(), claims), domain.ErrConfiguration)
	assert.ErrorIs(t, svc.Logout(context.Background(), nil), domain.ErrInvalidToken)
}

func TestAuthMetrics(t *testing.T) {
	metrics := newRecordingMetrics()
	svc, err := NewAuthService(testAuthConfig(), memory.NewMemoryUserRepository(), nil, metrics, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	_, _ = svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	_, _ = svc.Authenticate(ctx, "ann@example.com", "nope-nope")

	assert.Equal(t, 1, metrics.authEvents["signup:success"])
	assert.Equal(t, 1, metrics.authEvents["signup:duplicate"])
	assert.Equal(t, 1, metrics.authEvents["login:invalid_credential"])
}

func TestRejectedCredentialsKeepEmailOutOfInfoLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	denylist := memory.NewMemoryTokenDenylist(time.Minute)
	t.Cleanup(denylist.Close)

	svc, err := NewAuthService(testAuthConfig(), memory.NewMemoryUserRepository(), denylist, nil, zap.New(core).Sugar())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ann Again", "ann@example.com", "secret2")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.Authenticate(ctx, "ann@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	for _, entry := range logs.All() {
		_, hasEmail := entry.ContextMap()["email"]
		assert.False(t, hasEmail, "entry %q logged an email", entry.Message)
	}
	assert.Empty(t, logs.FilterMessage("signup rejected").All())
	assert.Empty(t, logs.FilterMessage("login rejected").All())
}
