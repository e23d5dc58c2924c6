/* Copyright 2025 Cornell Notes Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package token issues and verifies the signed bearer tokens used for
// authentication. Tokens are HS256 JWTs carrying the user identity.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/cornellnotes/cornell/pkg/server/database"
)

// ErrInvalid is an error for a token that is expired, malformed, or carries
// a bad signature
var ErrInvalid = errors.New("invalid token")

// Claims is the payload embedded in an access token
type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Create signs a new access token for the given user. The token expires
// after the given lifetime. It returns the token and its expiry time.
func Create(secret string, user *database.User, lifetime time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(lifetime)

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "signing token")
	}

	return signed, expiresAt, nil
}

// Verify parses and validates the given token string. It returns ErrInvalid
// for anything that should not authenticate: bad signature, wrong signing
// method, malformed input, or an expired token.
func Verify(secret, tokenString string) (*Claims, error) {
	var claims Claims

	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}

	return &claims, nil
}
