package service

import (
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/notaria4/notaria4/internal/domain"
)

// AuthService verifies bearer tokens and API keys. It never issues credentials.
type AuthService struct {
	jwtSecret []byte
	apiKeys   []domain.APIKeyCredential
}

// NewAuthService creates a new auth service
func NewAuthService(jwtSecret string, apiKeys []domain.APIKeyCredential) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		apiKeys:   apiKeys,
	}
}

// Enabled reports whether any credential source is configured
func (s *AuthService) Enabled() bool {
	return len(s.jwtSecret) > 0 || len(s.apiKeys) > 0
}

// ValidateAPIKey compares an API key against the configured hashes and
// returns the matching client ID
func (s *AuthService) ValidateAPIKey(apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrInvalidCredentials
	}

	apiKeyBytes := []byte(apiKey)
	for _, cred := range s.apiKeys {
		if err := bcrypt.CompareHashAndPassword([]byte(cred.KeyHash), apiKeyBytes); err == nil {
			return cred.ClientID, nil
		}
	}

	return "", ErrInvalidCredentials
}

// ValidateToken validates an HMAC-signed JWT and returns its client ID, read
// from the client_id claim or else the subject
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", ErrInvalidCredentials
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}

	if clientID, ok := claims["client_id"].(string); ok && clientID != "" {
		return clientID, nil
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidCredentials
	}
	return subject, nil
}

// HashAPIKey creates a bcrypt hash of an API key
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
