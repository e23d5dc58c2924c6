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

// Package middleware provides middleware for the handlers
package middleware

import (
	"net/http"
	"time"

	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/log"
)

// Middleware is a function type for wrapping a route handler
type Middleware func(h http.Handler, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for the api endpoints
func APIMw(h http.Handler, a *app.App, rateLimit bool) http.Handler {
	ret := h
	ret = ApplyLimit(ret, rateLimit)

	return ret
}

// statusWriter captures the status code written by a handler
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush passes flushes through so streaming responses keep working
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// logging logs each request after it is served
func logging(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := statusWriter{ResponseWriter: w, status: http.StatusOK}

		inner.ServeHTTP(&sw, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"uri":      r.RequestURI,
			"status":   sw.status,
			"duration": time.Since(start).String(),
			"remote":   lookupIP(r),
		}).Info("request")
	})
}

// recoverPanic turns a panicking handler into a 500 response
func recoverPanic(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{
					"uri":   r.RequestURI,
					"panic": rec,
				}).Error("handler panicked")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		inner.ServeHTTP(w, r)
	})
}

// Global applies the middleware for all routes
func Global(h http.Handler) http.Handler {
	ret := h
	ret = logging(ret)
	ret = recoverPanic(ret)

	return ret
}
