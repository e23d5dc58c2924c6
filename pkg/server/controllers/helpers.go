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

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/cornellnotes/cornell/pkg/server/context"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/middleware"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// parseJSON decodes the request body into dst
func parseJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decoding request body")
	}

	return nil
}

// parseQuery decodes the request query string into dst
func parseQuery(r *http.Request, dst interface{}) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.Wrap(err, "decoding query")
	}

	return nil
}

// mustUser returns the authenticated user from the request context. The
// auth middleware guarantees its presence on protected routes.
func mustUser(w http.ResponseWriter, r *http.Request) (database.User, bool) {
	user := context.User(r.Context())
	if user == nil {
		middleware.RespondUnauthorized(w)
		return database.User{}, false
	}

	return *user, true
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	middleware.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
