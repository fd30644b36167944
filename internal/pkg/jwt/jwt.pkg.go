package jwt

import (
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/helper"
	"ecosync-hub/internal/pkg/logger"
	"ecosync-hub/internal/pkg/validation"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UserDataKey = "user_data"
)

var ErrUserDataNotFound = errors.New("user data not found in token claims")

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

// GenerateToken signs data the way the storefront auth service does: id, email
// and role at the top level. The nested user_data claim is kept for older clients.
func GenerateToken(data types.UserWithAuth, ttl time.Duration) (string, *time.Time, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	exp := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"exp":       exp.Unix(),
		"id":        data.ID,
		"email":     data.Email,
		"role":      data.Role,
		UserDataKey: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, &exp, nil
}

func ValidateToken(jwtToken string) (*types.UserWithAuth, error) {
	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	source := any(claims)
	if nested, ok := claims[UserDataKey]; ok && nested != nil {
		source = nested
	} else if claims["id"] == nil {
		return nil, ErrUserDataNotFound
	}

	userData, err := helper.JSONToStruct[types.UserWithAuth](source)
	if err != nil {
		return nil, fmt.Errorf("error decoding user data: %w", err)
	}

	if err := validation.Validate(*userData); err != nil {
		return nil, err
	}

	return userData, nil
}
