// Package auth gates the admin endpoints. The admin key is checked against
// a bcrypt hash and exchanged for a short-lived HS256 token.
package auth

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	issuer          = "GiftStorm"
	adminSubject    = "admin"
	defaultTokenTTL = 12 * time.Hour
	minJWTKeyLen    = 32
)

var (
	ErrAdminDisabled = errors.New("admin access is not configured")
	ErrInvalidKey    = errors.New("invalid admin key")
	ErrInvalidToken  = errors.New("invalid admin token")
)

type Options struct {
	Repo Repository

	// AdminKey replaces the stored key hash when it no longer matches.
	AdminKey string

	// JWTSecret pins the signing key; otherwise one is generated and stored.
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Logger     *log.Logger
}

type Service struct {
	logger *log.Logger

	cookieName string
	tokenTTL   time.Duration
	keyHash    []byte
	jwtKey     []byte
}

func NewService(opts Options) (*Service, error) {
	if opts.Repo == nil {
		opts.Repo = NewMemoryRepo()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	cred, _, err := opts.Repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load admin credential: %w", err)
	}
	dirty := false

	key := strings.TrimSpace(opts.AdminKey)
	if key != "" && (cred.KeyHash == "" || bcrypt.CompareHashAndPassword([]byte(cred.KeyHash), []byte(key)) != nil) {
		hash, err := bcrypt.GenerateFromPassword([]byte(key), opts.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin key: %w", err)
		}
		cred.KeyHash = string(hash)
		dirty = true
		opts.Logger.Printf("[auth] admin key updated")
	}

	jwtKey := []byte(opts.JWTSecret)
	if len(jwtKey) == 0 {
		if len(cred.JWTKey) < minJWTKeyLen {
			cred.JWTKey = make([]byte, minJWTKeyLen)
			if _, err := rand.Read(cred.JWTKey); err != nil {
				return nil, fmt.Errorf("generate jwt key: %w", err)
			}
			dirty = true
		}
		jwtKey = cred.JWTKey
	}

	if dirty {
		cred.UpdatedAt = time.Now().UTC()
		if err := opts.Repo.Save(cred); err != nil {
			return nil, fmt.Errorf("save admin credential: %w", err)
		}
	}
	if cred.KeyHash == "" {
		opts.Logger.Printf("[auth] no admin key configured; admin endpoints are disabled")
	}

	return &Service{
		logger:     opts.Logger,
		cookieName: "giftstorm_admin",
		tokenTTL:   opts.TokenTTL,
		keyHash:    []byte(cred.KeyHash),
		jwtKey:     jwtKey,
	}, nil
}

func (s *Service) Enabled() bool { return len(s.keyHash) > 0 }

// CheckKey compares key against the stored hash.
func (s *Service) CheckKey(key string) error {
	if !s.Enabled() {
		return ErrAdminDisabled
	}
	if key == "" || bcrypt.CompareHashAndPassword(s.keyHash, []byte(key)) != nil {
		return ErrInvalidKey
	}
	return nil
}

// Login exchanges the admin key for a signed token.
func (s *Service) Login(key string, now time.Time) (string, time.Time, error) {
	if err := s.CheckKey(key); err != nil {
		return "", time.Time{}, err
	}
	exp := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken validates signature, issuer and expiry as of now.
func (s *Service) ParseToken(tok string, now time.Time) (Admin, error) {
	if tok == "" {
		return Admin{}, ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	keyFunc := func(*jwt.Token) (interface{}, error) { return s.jwtKey, nil }
	_, err := jwt.ParseWithClaims(tok, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Admin{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject != adminSubject {
		return Admin{}, ErrInvalidToken
	}
	return Admin{Subject: claims.Subject, Method: MethodToken, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthenticateRequest accepts a bearer token, the session cookie or the
// raw admin key in ?key=.
func (s *Service) AuthenticateRequest(r *http.Request, now time.Time) (Admin, bool) {
	if tok := bearerToken(r); tok != "" {
		a, err := s.ParseToken(tok, now)
		return a, err == nil
	}
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		if a, err := s.ParseToken(c.Value, now); err == nil {
			return a, true
		}
	}
	if key := r.URL.Query().Get("key"); key != "" {
		if s.CheckKey(key) == nil {
			return Admin{Subject: adminSubject, Method: MethodKey}, true
		}
	}
	return Admin{}, false
}

func (s *Service) shouldUseSecureCookie(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GIFTSTORM_COOKIE_SECURE"))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}

func (s *Service) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.shouldUseSecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Service) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.shouldUseSecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAPI rejects requests without admin credentials.
func (s *Service) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.AuthenticateRequest(r, time.Now())
		if !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withAdminContext(r.Context(), a)))
	})
}
