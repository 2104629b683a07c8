// Package session turns bearer tokens issued by the licensing backend into
// scoped sessions. Citizens and portal staff are separate audiences with
// separate session types; a token of one is refused by the other.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/javajoker/energy-eservice/internal/cache"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

type Scope string

const (
	ScopeCitizen Scope = "citizen"
	ScopePortal  Scope = "portal"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
	ErrSessionScope = errors.New("token belongs to another session scope")
)

type Claims struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is the state shared by both scopes.
type Session struct {
	Scope     Scope
	UserID    string
	Role      models.Role
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

func (s *Session) Actor() workflow.Actor {
	return workflow.Actor{ID: s.UserID, Role: s.Role}
}

// Namespace prefixes every cache key owned by the session.
func (s *Session) Namespace() string {
	return cache.Key(string(s.Scope), s.UserID)
}

// Citizen is a regular user session.
type Citizen struct{ *Session }

// Portal is an officer/admin session.
type Portal struct{ *Session }

type Config struct {
	VerifySecret    string
	CitizenAudience string
	PortalAudience  string
}

type Manager struct {
	cfg   Config
	cache cache.Cache
	now   func() time.Time
}

func NewManager(cfg Config, c cache.Cache) *Manager {
	return &Manager{cfg: cfg, cache: c, now: time.Now}
}

func (m *Manager) InitCitizen(token string) (*Citizen, error) {
	s, err := m.init(token, ScopeCitizen)
	if err != nil {
		return nil, err
	}
	return &Citizen{s}, nil
}

func (m *Manager) InitPortal(token string) (*Portal, error) {
	s, err := m.init(token, ScopePortal)
	if err != nil {
		return nil, err
	}
	return &Portal{s}, nil
}

// Teardown drops everything the session cached.
func (m *Manager) Teardown(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if err := m.cache.DeletePrefix(ctx, s.Namespace()+":"); err != nil {
		return fmt.Errorf("failed to evict session cache: %w", err)
	}
	return nil
}

func (m *Manager) init(token string, scope Scope) (*Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	if !claims.VerifyExpiresAt(m.now(), true) {
		return nil, ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	role := models.Role(claims.Role)
	if scope == ScopeCitizen && role == "" {
		role = models.RoleCitizen
	}
	if err := m.checkScope(claims, role, scope); err != nil {
		return nil, err
	}

	s := &Session{
		Scope:  scope,
		UserID: claims.Subject,
		Role:   role,
		Name:   claims.Name,
		Email:  claims.Email,
		Token:  token,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (m *Manager) checkScope(claims *Claims, role models.Role, scope Scope) error {
	audience := m.cfg.CitizenAudience
	if scope == ScopePortal {
		audience = m.cfg.PortalAudience
	}
	if len(claims.Audience) > 0 && audience != "" && !claims.VerifyAudience(audience, true) {
		return ErrSessionScope
	}

	switch scope {
	case ScopeCitizen:
		if role != models.RoleCitizen {
			return ErrSessionScope
		}
	case ScopePortal:
		if !role.IsStaff() {
			return ErrSessionScope
		}
	}
	return nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	claims := &Claims{}

	if m.cfg.VerifySecret == "" {
		// The backend validates the signature on every call it receives.
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return claims, nil
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.cfg.VerifySecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
