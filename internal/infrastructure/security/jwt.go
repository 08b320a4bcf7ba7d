// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/user"
	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateSessionToken creates a JWT for an authenticated session.
// The encrypted marker binds the token to this service's AES key so a
// leaked JWT secret alone cannot mint accepted tokens.
func GenerateSessionToken(profile *user.Profile, role user.Role, ttl time.Duration, jwtSecret, aesKey string) (string, error) {
	marker := GenerateULID()
	encryptedMarker, err := Encrypt(marker, aesKey)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"userId": profile.UserID,
		"role":   string(role),
		"profile": map[string]string{
			"firstName": profile.FirstName,
			"email":     profile.Email,
			"phone":     profile.Phone,
		},
		"marker": encryptedMarker,
		"iat":    time.Now().UTC().Unix(),
		"exp":    time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GetProfileFromClaims extracts a customer profile from session claims.
// Returns nil when the claims do not carry a profile.
func GetProfileFromClaims(claims jwt.MapClaims) *user.Profile {
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return nil
	}

	profile := &user.Profile{UserID: userID}
	if profileData, ok := claims["profile"].(map[string]any); ok {
		profile.FirstName, _ = profileData["firstName"].(string)
		profile.Email, _ = profileData["email"].(string)
		profile.Phone, _ = profileData["phone"].(string)
	}
	return profile
}

// GetRoleFromClaims extracts the authorization role from session claims.
func GetRoleFromClaims(claims jwt.MapClaims) user.Role {
	if role, ok := claims["role"].(string); ok {
		switch user.Role(role) {
		case user.RoleAdmin, user.RoleEditor, user.RoleCustomer:
			return user.Role(role)
		}
	}
	return user.RoleCustomer
}
