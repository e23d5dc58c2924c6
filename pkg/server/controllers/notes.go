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
	"gorm.io/datatypes"
)

// NewNotes creates a new Notes controller
func NewNotes(app *app.App) *Notes {
	return &Notes{app: app}
}

// Notes is a note controller
type Notes struct {
	app *app.App
}

// noteListQuery is the query string for listing notes
type noteListQuery struct {
	Page       int    `schema:"page"`
	PerPage    int    `schema:"per_page"`
	NotebookID string `schema:"notebook_id"`
	IsStarred  *bool  `schema:"is_starred"`
	Search     string `schema:"search"`
	Sort       string `schema:"sort"`
}

// Index handles GET /notes
func (n *Notes) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var query noteListQuery
	if err := parseQuery(r, &query); err != nil {
		respondBadRequest(w, "invalid query")
		return
	}

	result, err := n.app.GetNotes(user, app.GetNotesParams{
		Page:       query.Page,
		PerPage:    query.PerPage,
		NotebookID: query.NotebookID,
		IsStarred:  query.IsStarred,
		Search:     query.Search,
		Sort:       query.Sort,
	})
	if err != nil {
		middleware.RespondAppError(w, "getting notes", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNoteList(result))
}

// NoteContentPayload is the content part of a note payload
type NoteContentPayload struct {
	CueColumn   *string        `json:"cue_column"`
	NoteColumn  *string        `json:"note_column"`
	SummaryRow  *string        `json:"summary_row"`
	MindmapData datatypes.JSON `json:"mindmap_data"`
}

// CreateNotePayload is the payload for creating a note
type CreateNotePayload struct {
	Title       string              `json:"title"`
	NotebookID  string              `json:"notebook_id"`
	AccessLevel string              `json:"access_level"`
	Content     *NoteContentPayload `json:"content"`
}

// Create handles POST /notes
func (n *Notes) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var payload CreateNotePayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	params := app.CreateNoteParams{
		Title:       payload.Title,
		NotebookID:  payload.NotebookID,
		AccessLevel: payload.AccessLevel,
	}
	if payload.Content != nil {
		params.Content = app.NoteContentParams{
			CueColumn:  payload.Content.CueColumn,
			NoteColumn: payload.Content.NoteColumn,
			SummaryRow: payload.Content.SummaryRow,
			Mindmap:    payload.Content.MindmapData,
		}
	}

	note, err := n.app.CreateNote(user, params)
	if err != nil {
		middleware.RespondAppError(w, "creating note", err)
		return
	}

	middleware.RespondJSON(w, http.StatusCreated, presenters.PresentNote(note))
}

// Show handles GET /notes/{noteID}
func (n *Notes) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	note, err := n.app.GetNote(user, noteID)
	if err != nil {
		middleware.RespondAppError(w, "getting note", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNote(note))
}

// UpdateNotePayload is the payload for updating a note
type UpdateNotePayload struct {
	Title       *string             `json:"title"`
	NotebookID  *string             `json:"notebook_id"`
	AccessLevel *string             `json:"access_level"`
	IsStarred   *bool               `json:"is_starred"`
	IsArchived  *bool               `json:"is_archived"`
	Content     *NoteContentPayload `json:"content"`
}

// Update handles PUT /notes/{noteID}
func (n *Notes) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	var payload UpdateNotePayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	params := app.UpdateNoteParams{
		Title:       payload.Title,
		NotebookID:  payload.NotebookID,
		AccessLevel: payload.AccessLevel,
		IsStarred:   payload.IsStarred,
		IsArchived:  payload.IsArchived,
	}
	if payload.Content != nil {
		params.Content = &app.NoteContentParams{
			CueColumn:  payload.Content.CueColumn,
			NoteColumn: payload.Content.NoteColumn,
			SummaryRow: payload.Content.SummaryRow,
			Mindmap:    payload.Content.MindmapData,
		}
	}

	note, err := n.app.UpdateNote(user, noteID, params)
	if err != nil {
		middleware.RespondAppError(w, "updating note", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentNote(note))
}

// CopyNotePayload is the payload for copying a note
type CopyNotePayload struct {
	NotebookID string `json:"notebook_id"`
}

// Copy handles POST /notes/{noteID}/copy
func (n *Notes) Copy(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	var payload CopyNotePayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := parseJSON(r, &payload); err != nil {
			respondBadRequest(w, "invalid payload")
			return
		}
	}

	note, err := n.app.CopyNote(user, noteID, payload.NotebookID)
	if err != nil {
		middleware.RespondAppError(w, "copying note", err)
		return
	}

	middleware.RespondJSON(w, http.StatusCreated, presenters.PresentNote(note))
}

// Delete handles DELETE /notes/{noteID}
func (n *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	if err := n.app.DeleteNote(user, noteID); err != nil {
		middleware.RespondAppError(w, "deleting note", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
