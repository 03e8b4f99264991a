// Package auth implements the session credential for the CLI: a signed,
// time-limited token persisted to a single local file, plus the login
// and logout flows that manage it. At most one credential is valid at a
// time; login overwrites the file and logout truncates it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"epicevents.org/internal/store"
)

const issuer = "epicevents"

const defaultTTL = time.Hour

// maxLoginAttempts caps the interactive retry loop.
const maxLoginAttempts = 3

// Claims is the signed token payload.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// LoginUI is the interactive surface Login needs. The cli package
// provides it.
type LoginUI interface {
	EmailInput(label string, required bool) (string, error)
	SecretInput(label string, required bool) (string, error)
	Info(msg string)
	Error(msg string)
}

// Service issues, verifies, and resolves session credentials.
type Service struct {
	employees store.EmployeeStore
	secret    []byte
	tokenPath string
	ttl       time.Duration
	now       func() time.Time
	limiter   *rate.Limiter
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithLoginLimiter overrides the login attempt pacing.
func WithLoginLimiter(l *rate.Limiter) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// NewService constructs the token service. tokenPath is the well-known
// file holding zero or one signed token.
func NewService(employees store.EmployeeStore, secret, tokenPath string, opts ...ServiceOption) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if strings.TrimSpace(tokenPath) == "" {
		return nil, errors.New("auth: token path is required")
	}
	svc := &Service{
		employees: employees,
		secret:    []byte(secret),
		tokenPath: tokenPath,
		ttl:       defaultTTL,
		now:       time.Now,
		// Three quick attempts, then one every couple of seconds.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), maxLoginAttempts),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IssueToken signs a token for the given employee and overwrites the
// token file with it. A failure to write is fatal to the caller.
func (s *Service) IssueToken(userID int64, email string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id must be positive", ErrInvalidArgument)
	}
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}

	now := s.now().UTC()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.writeTokenFile(signed); err != nil {
		return "", err
	}
	return signed, nil
}

// VerifyToken decodes the token and checks signature and expiry. Any
// failure collapses into ErrInvalidToken; the caller re-logins rather
// than inspecting the cause.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResolveUser reads the persisted token and returns the matching
// employee. It distinguishes an invalid/expired token (ErrInvalidToken,
// re-login), an employee deleted after issuance (store.ErrNotFound,
// "token problem"), and genuine store failures (propagated).
func (s *Service) ResolveUser(ctx context.Context) (*store.Employee, error) {
	token, err := s.ReadToken()
	if err != nil {
		return nil, err
	}
	claims, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// Login runs the interactive email/password flow: at most
// maxLoginAttempts tries, paced by the rate limiter. On success a token
// is issued and persisted.
func (s *Service) Login(ctx context.Context, ui LoginUI) (*store.Employee, error) {
	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		email, err := ui.EmailInput("Email address", true)
		if err != nil {
			return nil, err
		}
		password, err := ui.SecretInput("Password", true)
		if err != nil {
			return nil, err
		}

		emp, err := s.employees.FindByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			ui.Error("Employee does not exists !")
			continue
		}
		if err != nil {
			return nil, err
		}
		if VerifyPassword(emp.PasswordHash, password) != nil {
			ui.Error("Invalid email or password !")
			continue
		}

		if _, err := s.IssueToken(emp.ID, emp.Email); err != nil {
			return nil, err
		}
		ui.Info(fmt.Sprintf("Successfully logged in as %s (%s)", emp.FullName(), emp.Role.Display()))
		return emp, nil
	}
	return nil, ErrTooManyAttempts
}

// Logout truncates the persisted token file.
func (s *Service) Logout() error {
	return s.writeTokenFile("")
}

// ReadToken ensures the token file exists (creating an empty one if
// absent) and returns its trimmed content.
func (s *Service) ReadToken() (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return "", fmt.Errorf("create token dir: %w", err)
	}
	data, err := os.ReadFile(s.tokenPath)
	if os.IsNotExist(err) {
		if err := s.writeTokenFile(""); err != nil {
			return "", err
		}
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeTokenFile persists the token with owner-only permissions, the
// same stance session files take elsewhere: the content grants access.
func (s *Service) writeTokenFile(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.tokenPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
