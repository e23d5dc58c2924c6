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

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cornellnotes/cornell/pkg/server/context"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/token"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetCredential extracts the bearer token from the request, if any
func GetCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// authWithToken authenticates the request with a signed bearer token
func authWithToken(db *gorm.DB, secret string, r *http.Request) (database.User, bool, error) {
	var user database.User

	tokenValue := GetCredential(r)
	if tokenValue == "" {
		return user, false, nil
	}

	claims, err := token.Verify(secret, tokenValue)
	if err != nil {
		return user, false, nil
	}

	err = db.Where("id = ?", claims.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding user")
	}

	if !user.IsActive {
		return user, false, nil
	}

	return user, true, nil
}

// Auth is an authentication middleware. The user from a valid token is
// placed on the request context.
func Auth(db *gorm.DB, secret string, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := authWithToken(db, secret, r)
		if err != nil {
			DoError(w, "authenticating with token", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
