package domain

// APIKeyCredential is a configured API client and the bcrypt hash of its key
type APIKeyCredential struct {
	ClientID string
	KeyHash  string
}
