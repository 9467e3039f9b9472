package auth

import "time"

// Credential is the persisted admin secret material. The admin key itself
// is never stored, only its bcrypt hash.
type Credential struct {
	KeyHash   string    `json:"keyHash"`
	JWTKey    []byte    `json:"jwtKey"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Admin is the authenticated principal of an admin request.
type Admin struct {
	Subject   string    `json:"subject"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

const (
	MethodToken = "token"
	MethodKey   = "key"
)
