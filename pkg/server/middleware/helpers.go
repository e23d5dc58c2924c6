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
	"encoding/json"
	"net/http"

	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/log"
)

// errorResponse is the body of an error reply
type errorResponse struct {
	Error string `json:"error"`
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	log.ErrorWrap(err, msg)
	respondError(w, http.StatusText(statusCode), statusCode)
}

// RespondUnauthorized responds with a 401
func RespondUnauthorized(w http.ResponseWriter) {
	respondError(w, "unauthorized", http.StatusUnauthorized)
}

// RespondJSON writes the given payload as a JSON response
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, statusCode, errorResponse{Error: message})
}

// statusCodes maps application error kinds to HTTP status codes
var statusCodes = map[app.Kind]int{
	app.KindValidation:         http.StatusBadRequest,
	app.KindUnauthorized:       http.StatusUnauthorized,
	app.KindForbidden:          http.StatusForbidden,
	app.KindNotFound:           http.StatusNotFound,
	app.KindConflict:           http.StatusConflict,
	app.KindServiceUnavailable: http.StatusServiceUnavailable,
	app.KindUpstream:           http.StatusBadGateway,
}

// RespondAppError maps an application error to an HTTP response. Errors
// without a known kind are internal and never leak their message.
func RespondAppError(w http.ResponseWriter, msg string, err error) {
	kind := app.KindOf(err)

	statusCode, ok := statusCodes[kind]
	if !ok {
		DoError(w, msg, err, http.StatusInternalServerError)
		return
	}

	respondError(w, err.Error(), statusCode)
}
