// Package services provides application-level orchestration services
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/user"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/backend"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/performance"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/security"
	"github.com/drinkmate/drinkmate-go/pkg/config"
)

// AuthService handles storefront authentication. Customer credentials
// are verified by the legacy backend; this service mints the session
// token, exposes claim decoding for middleware, and handles the
// local admin dashboard login.
type AuthService struct {
	forwarder   *backend.Forwarder
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthService creates a new authentication service
func NewAuthService(forwarder *backend.Forwarder, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthService {
	return &AuthService{
		forwarder:   forwarder,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Success bool          `json:"success"`
	Token   string        `json:"token,omitempty"`
	Role    string        `json:"role,omitempty"`
	Profile *user.Profile `json:"profile,omitempty"`
	Status  int           `json:"-"`
	Error   string        `json:"error,omitempty"`
}

// backendProfile mirrors the legacy backend's login response payload.
type backendProfile struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Login verifies customer credentials against the legacy backend and
// mints a session token carrying the profile.
func (a *AuthService) Login(ctx context.Context, email, password string) *AuthResult {
	marker := a.perfTracker.StartOperation("auth_login")
	defer marker.Complete()

	if email == "" || password == "" {
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: http.StatusBadRequest, Error: "Email and password are required"}
	}

	result := a.forwarder.ForwardJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")

	if result.Status != http.StatusOK {
		a.logger.Auth().Warn("Backend rejected login", "status", result.Status)
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: result.Status, Error: "Invalid credentials"}
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    backendProfile `json:"data"`
		Message string         `json:"message"`
	}
	if err := json.Unmarshal(result.Body, &envelope); err != nil || !envelope.Success {
		a.logger.Auth().Error("Unreadable login response from backend", "error", err)
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: http.StatusBadGateway, Error: "Authentication service unavailable"}
	}

	profile := &user.Profile{
		UserID:    envelope.Data.UserID,
		FirstName: envelope.Data.FirstName,
		Email:     envelope.Data.Email,
		Phone:     envelope.Data.Phone,
	}

	token, err := security.GenerateSessionToken(profile, user.RoleCustomer, config.SessionTokenTTL, config.JWTSecret, config.AESKey)
	if err != nil {
		a.logger.Auth().Error("Failed to mint session token", "error", err)
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: http.StatusInternalServerError, Error: "Internal server error"}
	}

	a.logger.Auth().Info("Customer authenticated", "userId", profile.UserID)
	marker.SetSuccess(true)
	return &AuthResult{Success: true, Token: token, Role: string(user.RoleCustomer), Profile: profile, Status: http.StatusOK}
}

// AuthenticateAdmin validates the dashboard password and mints an
// admin token. The dashboard has no backend account; credentials live
// in local configuration as a bcrypt hash.
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	marker := a.perfTracker.StartOperation("auth_admin_login")
	defer marker.Complete()

	if config.AdminPasswordHash == "" || !security.CheckPassword(password, config.AdminPasswordHash) {
		a.logger.Auth().Warn("Admin login rejected")
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: http.StatusUnauthorized, Error: "Invalid credentials"}
	}

	profile := &user.Profile{UserID: "admin", FirstName: "Admin"}
	token, err := security.GenerateSessionToken(profile, user.RoleAdmin, 24*time.Hour, config.JWTSecret, config.AESKey)
	if err != nil {
		marker.SetSuccess(false)
		return &AuthResult{Success: false, Status: http.StatusInternalServerError, Error: "Internal server error"}
	}

	marker.SetSuccess(true)
	return &AuthResult{Success: true, Token: token, Role: string(user.RoleAdmin), Status: http.StatusOK}
}

// DecodeToken validates a bearer token and returns the session it
// represents, or nil for missing/expired/forged tokens.
func (a *AuthService) DecodeToken(tokenString string) *user.Session {
	if tokenString == "" {
		return nil
	}

	claims, err := security.ValidateJWT(tokenString, config.JWTSecret)
	if err != nil {
		return nil
	}

	profile := security.GetProfileFromClaims(claims)
	if profile == nil {
		return nil
	}

	return &user.Session{
		UserID:       profile.UserID,
		Role:         security.GetRoleFromClaims(claims),
		LastAccessed: time.Now().UTC(),
	}
}
