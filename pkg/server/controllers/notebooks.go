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
	"github.com/cornellnotes/cornell/pkg/server/middleware"
	"github.com/cornellnotes/cornell/pkg/server/presenters"
	"github.com/gorilla/mux"
)

// NewNotebooks creates a new Notebooks controller
func NewNotebooks(app *app.App) *Notebooks {
	return &Notebooks{app: app}
}

// Notebooks is a notebook controller
type Notebooks struct {
	app *app.App
}

// notebookListQuery is the query string for listing notebooks
type notebookListQuery struct {
	Page            int  `schema:"page"`
	PerPage         int  `schema:"per_page"`
	IncludeArchived bool `schema:"include_archived"`
}

// Index handles GET /notebooks
func (n *Notebooks) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var query notebookListQuery
	if err := parseQuery(r, &query); err != nil {
		respondBadRequest(w, "invalid query")
		return
	}

	result, err := n.app.GetNotebooks(user, app.GetNotebooksParams{
		Page:            query.Page,
		PerPage:         query.PerPage,
		IncludeArchived: query.IncludeArchived,
	})
	if err != nil {
		middleware.RespondAppError(w, "getting notebooks", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNotebookList(result))
}

// CreateNotebookPayload is the payload for creating a notebook
type CreateNotebookPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	IsPublic    bool   `json:"is_public"`
}

// Create handles POST /notebooks
func (n *Notebooks) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var payload CreateNotebookPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	notebook, err := n.app.CreateNotebook(user, app.CreateNotebookParams{
		Title:       payload.Title,
		Description: payload.Description,
		Color:       payload.Color,
		Icon:        payload.Icon,
		IsPublic:    payload.IsPublic,
	})
	if err != nil {
		middleware.RespondAppError(w, "creating notebook", err)
		return
	}

	middleware.RespondJSON(w, http.StatusCreated, presenters.PresentNotebook(app.NotebookInfo{Notebook: notebook}))
}

// Show handles GET /notebooks/{notebookID}
func (n *Notebooks) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	notebookID := vars["notebookID"]

	info, err := n.app.GetNotebook(user, notebookID)
	if err != nil {
		middleware.RespondAppError(w, "getting notebook", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNotebook(info))
}

// UpdateNotebookPayload is the payload for updating a notebook
type UpdateNotebookPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsArchived  *bool   `json:"is_archived"`
	IsPublic    *bool   `json:"is_public"`
}

// Update handles PUT /notebooks/{notebookID}
func (n *Notebooks) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	notebookID := vars["notebookID"]

	var payload UpdateNotebookPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	notebook, err := n.app.UpdateNotebook(user, notebookID, app.UpdateNotebookParams{
		Title:       payload.Title,
		Description: payload.Description,
		Color:       payload.Color,
		Icon:        payload.Icon,
		IsArchived:  payload.IsArchived,
		IsPublic:    payload.IsPublic,
	})
	if err != nil {
		middleware.RespondAppError(w, "updating notebook", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNotebook(app.NotebookInfo{Notebook: notebook}))
}

// Delete handles DELETE /notebooks/{notebookID}
func (n *Notebooks) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	notebookID := vars["notebookID"]

	if err := n.app.DeleteNotebook(user, notebookID); err != nil {
		middleware.RespondAppError(w, "deleting notebook", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]string{"message": "notebook deleted"})
}
