package controllers

import (
	"context"
	"errors"
	"fmt"

	"fusevip/tools"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no access token")

// AccessClaims are the claims the hosted auth service puts in its access
// tokens. The subject is the auth user id.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks access tokens locally with the project JWT secret,
// or asks the auth service when no secret is configured.
type TokenVerifier struct {
	secret []byte
	auth   tools.AuthClient
}

func NewTokenVerifier(secret string, auth tools.AuthClient) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), auth: auth}
}

func (v *TokenVerifier) Verify(ctx context.Context, token string) (tools.AuthUser, error) {
	if token == "" {
		return tools.AuthUser{}, ErrNoToken
	}

	if len(v.secret) > 0 {
		claims := &AccessClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return v.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			return tools.AuthUser{}, fmt.Errorf("verify access token: %w", err)
		}
		if claims.Subject == "" {
			return tools.AuthUser{}, errors.New("access token has no subject")
		}
		return tools.AuthUser{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
	}

	if v.auth == nil {
		return tools.AuthUser{}, tools.ErrNotConfigured
	}
	user, err := v.auth.GetUser(ctx, token)
	if err != nil {
		return tools.AuthUser{}, fmt.Errorf("verify access token: %w", err)
	}
	return *user, nil
}
