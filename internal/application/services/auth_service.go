package services

import (
	"errors"
	"strings"
	"time"

	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/security"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles operator authentication for the attribution readout
// and campaign admin endpoints.
type AuthService struct {
	passwordHash  []byte
	jwtSecret     string
	tokenLifetime time.Duration
	logger        *logging.ChanneledLogger
}

// NewAuthService creates an auth service. The operator password is hashed at
// construction so the plaintext never lives past startup. An empty password
// disables operator login entirely.
func NewAuthService(adminPassword, jwtSecret string, logger *logging.ChanneledLogger) (*AuthService, error) {
	svc := &AuthService{
		jwtSecret:     jwtSecret,
		tokenLifetime: 24 * time.Hour,
		logger:        logger,
	}

	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		svc.passwordHash = hash
	}

	return svc, nil
}

// AuthenticateOperator validates the operator password and returns a signed
// token on success.
func (s *AuthService) AuthenticateOperator(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", errors.New("operator login is not configured")
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.LogAuthOperation("operator_login", false)
		}
		return "", errors.New("invalid password")
	}

	token, err := security.GenerateOperatorToken(s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", err
	}

	if s.logger != nil {
		s.logger.LogAuthOperation("operator_login", true)
	}
	return token, nil
}

// ValidateOperator checks a bearer header (or raw token) for a valid
// operator claim.
func (s *AuthService) ValidateOperator(authHeader string) bool {
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return false
	}

	claims, err := security.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return false
	}

	role, _ := claims["role"].(string)
	return role == "operator"
}
