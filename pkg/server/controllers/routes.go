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
	"net/http"

	"github.com/cornellnotes/cornell/pkg/server/app"
	mw "github.com/cornellnotes/cornell/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	Routes      []Route
}

// NewRoutes returns the api routes
func NewRoutes(a *app.App, c *Controllers) []Route {
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Auth(a.DB, a.Config.TokenSecret, h)
	}

	return []Route{
		{"POST", "/auth/register", c.Users.Register, true},
		{"POST", "/auth/login", c.Users.Login, true},
		{"GET", "/auth/me", auth(c.Users.Me), true},
		{"PUT", "/auth/change-password", auth(c.Users.ChangePassword), true},
		{"PUT", "/auth/update-profile", auth(c.Users.UpdateProfile), true},

		{"GET", "/notebooks", auth(c.Notebooks.Index), true},
		{"POST", "/notebooks", auth(c.Notebooks.Create), true},
		{"GET", "/notebooks/{notebookID}", auth(c.Notebooks.Show), true},
		{"PUT", "/notebooks/{notebookID}", auth(c.Notebooks.Update), true},
		{"DELETE", "/notebooks/{notebookID}", auth(c.Notebooks.Delete), true},

		{"GET", "/notes", auth(c.Notes.Index), true},
		{"POST", "/notes", auth(c.Notes.Create), true},
		{"GET", "/notes/{noteID}", auth(c.Notes.Show), true},
		{"PUT", "/notes/{noteID}", auth(c.Notes.Update), true},
		{"DELETE", "/notes/{noteID}", auth(c.Notes.Delete), true},
		{"POST", "/notes/{noteID}/copy", auth(c.Notes.Copy), true},

		{"POST", "/ai/explore", auth(c.AI.Explore), true},
		{"POST", "/ai/extractPoint", auth(c.AI.ExtractPoint), true},
		{"POST", "/ai/generateMindmap", auth(c.AI.GenerateMindmap), true},
		{"POST", "/ai/checkSummary", auth(c.AI.CheckSummary), true},

		{"POST", "/ai/conversations", auth(c.Conversations.Save), true},
		{"GET", "/ai/conversations/{noteID}", auth(c.Conversations.Show), true},
		{"DELETE", "/ai/conversations/{noteID}", auth(c.Conversations.Delete), true},

		{"GET", "/health", c.Health.Index, true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)
	registerRoutes(router, mw.APIMw, app, rc.Routes)

	return mw.Global(router), nil
}
