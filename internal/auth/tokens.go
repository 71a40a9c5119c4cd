package auth

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the access/refresh credential pair issued at login and
// rotated on refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var ErrInvalidToken = errors.New("invalid token")

// Generate signs a new access/refresh pair for the user. Both tokens carry a
// random claim so two pairs issued in the same second still differ.
func Generate(userID int, secret []byte, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	random := fmt.Sprintf("%d", rand.Int63())

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"random":  random,
		"exp":     time.Now().Add(accessTTL).Unix(),
	})
	accessToken, err := access.SignedString(secret)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"random":  random,
		"exp":     time.Now().Add(refreshTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString(secret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Parse verifies a token and returns the user id it was issued to.
func Parse(tokenString string, secret []byte) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int(id), nil
}
