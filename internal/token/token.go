// Copyright 2026 FreightOps Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token issues and verifies signed access tokens for HQ
// automation clients. Tokens are HS256 JWTs carrying the employee's
// identity and role so that guards can rebuild a principal without a
// session lookup. Permissions are never embedded in the token; they
// are always re-derived from the role registry at verification time.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freightops/hq-access/internal/id"
	"github.com/freightops/hq-access/internal/rbac"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the JWT claim set for HQ access tokens
type Claims struct {
	Email      string          `json:"email"`
	Role       rbac.Role       `json:"role"`
	Department rbac.Department `json:"department"`
	jwt.RegisteredClaims
}

// Service issues and verifies HQ access tokens
type Service struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	registry *rbac.Registry
}

// NewService creates a token service. The secret must be kept private;
// anyone holding it can mint tokens for any role.
func NewService(secret []byte, issuer string, ttl time.Duration, registry *rbac.Registry) *Service {
	return &Service{
		secret:   secret,
		issuer:   issuer,
		ttl:      ttl,
		registry: registry,
	}
}

// Issue generates a signed access token for the given principal
func (s *Service) Issue(principal *rbac.Principal) (string, time.Time, error) {
	if principal == nil || !principal.IsHQ() {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Email:      principal.Email,
		Role:       principal.Role,
		Department: principal.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   principal.EmployeeID,
			ID:        id.NewUUIDv7(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses a signed token and rebuilds the principal it was
// issued for. Permissions are derived from the registry, not the token.
func (s *Service) Verify(tokenString string) (*rbac.Principal, error) {
	var claims Claims

	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}

	if !s.registry.IsRole(claims.Role) {
		return nil, ErrTokenInvalid
	}

	return &rbac.Principal{
		EmployeeID:  claims.Subject,
		Email:       claims.Email,
		Role:        claims.Role,
		Department:  claims.Department,
		Permissions: s.registry.PermissionsForRole(claims.Role),
	}, nil
}
