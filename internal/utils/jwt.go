package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/models"
)

// Claims represents the JWT claims.
type Claims struct {
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
	PatientID string      `json:"patient_id,omitempty"`
	jwt.RegisteredClaims
}

// Session returns the identity carried by the claims.
func (c *Claims) Session() models.Session {
	return models.Session{Role: c.Role, Name: c.Name, PatientID: c.PatientID}
}

// GenerateToken signs an access token for the session.
func GenerateToken(session models.Session, cfg *config.Config) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(time.Duration(cfg.JWTExpirationMinutes) * time.Minute)
	subject := session.PatientID
	if subject == "" {
		subject = session.Name
	}
	claims := &Claims{
		Role:      session.Role,
		Name:      session.Name,
		PatientID: session.PatientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Role != models.RolePatient && claims.Role != models.RoleDoctor {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return claims, nil
}
