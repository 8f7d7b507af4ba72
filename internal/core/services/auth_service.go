package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"
	"roomcast/pkg/logger"
	"roomcast/pkg/tracing"
	"roomcast/pkg/utils"
	"roomcast/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	TokenTypeBearer = "Bearer"
)

type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

type authService struct {
	jwtSecret  []byte
	issuer     string
	tokenTTL   time.Duration
	bcryptCost int

	users    ports.UserRepository
	denylist ports.TokenDenylist
	metrics  ports.RoomMetrics
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewAuthService fails with domain.ErrConfiguration when no signing secret
// is configured, so a process without one never starts serving.
func NewAuthService(
	cfg AuthConfig,
	users ports.UserRepository,
	denylist ports.TokenDenylist, // can be nil; logout is then unavailable
	metrics ports.RoomMetrics, // can be nil
	logger *zap.SugaredLogger,
) (ports.AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: jwt signing secret is required", domain.ErrConfiguration)
	}
	if users == nil {
		return nil, fmt.Errorf("%w: user repository is required", domain.ErrConfiguration)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range", domain.ErrConfiguration, cfg.BcryptCost)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &authService{
		jwtSecret:  []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
		users:      users,
		denylist:   denylist,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	ctx, span := tracing.TraceAuthOperation(ctx, "register")
	defer span.End()

	name = utils.SanitizeString(name)
	email = utils.NormalizeEmail(email)

	fields := validation.Fields{
		"name":     validation.ValidateDisplayName(name),
		"email":    validation.ValidateEmail(email),
		"password": validation.ValidatePassword(password),
	}
	if msgs := fields.Messages(); msgs != nil {
		s.metrics.RecordAuthEvent("signup", "invalid")
		return nil, domain.NewValidationError(msgs)
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           domain.UserID(utils.GenerateUserID()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		tracing.RecordError(ctx, err)
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.metrics.RecordAuthEvent("signup", "duplicate")
			s.logger.Debugw("signup rejected",
				"request_id", logger.RequestIDFromContext(ctx),
				"email", utils.MaskSensitive(email, 3),
			)
			return nil, err
		}
		s.metrics.RecordAuthEvent("signup", "error")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.RecordAuthEvent("signup", "success")
	s.logger.Infow("user registered", "user_id", user.ID)

	return s.result(user)
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	ctx, span := tracing.TraceAuthOperation(ctx, "authenticate")
	defer span.End()

	email = utils.NormalizeEmail(email)

	fields := validation.Fields{
		"email":    validation.ValidateRequired(email, "email"),
		"password": validation.ValidateRequired(password, "password"),
	}
	if msgs := fields.Messages(); msgs != nil {
		s.metrics.RecordAuthEvent("login", "invalid")
		return nil, domain.NewValidationError(msgs)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordAuthEvent("login", "not_found")
			return nil, err
		}
		tracing.RecordError(ctx, err)
		s.metrics.RecordAuthEvent("login", "error")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := checkPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.RecordAuthEvent("login", "invalid_credential")
		s.logger.Debugw("login rejected",
			"request_id", logger.RequestIDFromContext(ctx),
			"email", utils.MaskSensitive(email, 3),
		)
		return nil, domain.ErrInvalidCredential
	}

	s.metrics.RecordAuthEvent("login", "success")
	return s.result(user)
}

func (s *authService) result(user *domain.User) (*ports.AuthResult, error) {
	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
		User:      user.Public(),
	}, nil
}

func (s *authService) IssueToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &ports.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*ports.SessionClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &ports.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrInvalidToken)
		}
	}

	return claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *ports.SessionClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return domain.ErrInvalidToken
	}
	if s.denylist == nil {
		return fmt.Errorf("%w: token denylist not configured", domain.ErrConfiguration)
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.metrics.RecordAuthEvent("logout", "error")
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.metrics.RecordAuthEvent("logout", "success")
	s.logger.Infow("session revoked", "user_id", claims.UserID, "token_id", claims.ID)
	return nil
}
