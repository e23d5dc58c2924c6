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

// NewConversations creates a new Conversations controller
func NewConversations(app *app.App) *Conversations {
	return &Conversations{app: app}
}

// Conversations is an explore conversation controller
type Conversations struct {
	app *app.App
}

// QAPairPayload is one question and answer exchange
type QAPairPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SaveConversationPayload is the payload for saving a conversation
type SaveConversationPayload struct {
	NoteID  string          `json:"note_id"`
	Title   string          `json:"title"`
	QAPairs []QAPairPayload `json:"qa_pairs"`
}

// Save handles POST /ai/conversations
func (c *Conversations) Save(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var payload SaveConversationPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	pairs := make([]app.QAPairParams, 0, len(payload.QAPairs))
	for _, pair := range payload.QAPairs {
		pairs = append(pairs, app.QAPairParams{Question: pair.Question, Answer: pair.Answer})
	}

	conversation, err := c.app.SaveConversation(user, app.SaveConversationParams{
		NoteID: payload.NoteID,
		Title:  payload.Title,
		Pairs:  pairs,
	})
	if err != nil {
		middleware.RespondAppError(w, "saving conversation", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentConversation(conversation))
}

// Show handles GET /ai/conversations/{noteID}
func (c *Conversations) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	conversation, err := c.app.GetConversation(user, noteID)
	if err != nil {
		middleware.RespondAppError(w, "getting conversation", err)
		return
	}

	// a note with no saved conversation responds with null
	if conversation == nil {
		middleware.RespondJSON(w, http.StatusOK, nil)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentConversation(*conversation))
}

// Delete handles DELETE /ai/conversations/{noteID}
func (c *Conversations) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	noteID := vars["noteID"]

	if err := c.app.DeleteConversation(user, noteID); err != nil {
		middleware.RespondAppError(w, "deleting conversation", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]string{"message": "conversation deleted"})
}
