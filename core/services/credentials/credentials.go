// Package credentials registers users, checks their passwords and issues
// the signed bearer tokens that identify them on later requests.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrazmi/taskboard/core/repositories/usersrepo"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"golang.org/x/crypto/bcrypt"
)

// Set of error values returned by the service.
var (
	ErrInvalidInput = errors.New("invalid credentials input")
	ErrConflict     = errors.New("username already taken")
	ErrUnauthorized = errors.New("unauthorized")
)

// Config holds the token and hashing settings.
type Config struct {
	SigningKey string        `env:"AUTH_JWT_SIGNING_KEY" required:"true"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" default:"24h"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST" default:"10"`
	Issuer     string        `env:"AUTH_ISSUER" default:"taskboard"`
}

// LoadConfig reads Config from the environment under prefix.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing credentials config: %w", err)
	}
	return cfg, nil
}

// Credential is what a successful signup or signin hands back.
type Credential struct {
	Token     string
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// Claims are the JWT claims of an issued token. The subject is the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserStore is the subset of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, input usersrepo.CreateUser) (usersrepo.User, error)
	GetByUsername(ctx context.Context, username string) (usersrepo.User, error)
}

// Service issues and verifies credentials.
type Service struct {
	log   *logger.Logger
	users UserStore
	cfg   Config
	key   []byte
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for token issue and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService validates cfg and builds a Service.
func NewService(log *logger.Logger, users UserStore, cfg Config, opts ...Option) (*Service, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("credentials: signing key is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("credentials: token ttl must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("credentials: bcrypt cost %d out of range", cfg.BcryptCost)
	}

	s := &Service{
		log:   log,
		users: users,
		cfg:   cfg,
		key:   []byte(cfg.SigningKey),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates the user and signs them in.
func (s *Service) Register(ctx context.Context, username, password string) (Credential, error) {
	if err := validate(username, password); err != nil {
		return Credential{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Credential{}, fmt.Errorf("%w: password is too long", ErrInvalidInput)
		}
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, usersrepo.CreateUser{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, usersrepo.ErrDuplicateUsername) {
			return Credential{}, fmt.Errorf("%w: %s", ErrConflict, username)
		}
		return Credential{}, fmt.Errorf("register: %w", err)
	}

	return s.issue(user)
}

// Authenticate checks username and password and signs the user in. Unknown
// users and wrong passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Credential, error) {
	if username == "" || password == "" {
		return Credential{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, usersrepo.ErrNotFound) {
			return Credential{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return Credential{}, fmt.Errorf("authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.InfoContext(ctx, "signin rejected", "user_id", user.ID)
		return Credential{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	return s.issue(user)
}

// Verify checks the token signature and expiry and returns the user id it
// was issued to.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.log.DebugContext(ctx, "token rejected", "err", err)
		return "", fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *Service) issue(user usersrepo.User) (Credential, error) {
	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)

	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return Credential{}, fmt.Errorf("sign token: %w", err)
	}

	return Credential{
		Token:     signed,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: expires,
	}, nil
}

func validate(username, password string) error {
	if username == "" || strings.TrimSpace(username) != username {
		return fmt.Errorf("%w: username must be non-empty without surrounding spaces", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}
