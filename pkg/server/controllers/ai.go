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
	"fmt"
	"net/http"

	"github.com/cornellnotes/cornell/pkg/server/ai"
	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/log"
	"github.com/cornellnotes/cornell/pkg/server/middleware"
	"github.com/pkg/errors"
)

// NewAI creates a new AI controller
func NewAI(app *app.App, gateway *ai.Gateway) *AI {
	return &AI{app: app, gateway: gateway}
}

// AI is a controller for the AI gateway operations
type AI struct {
	app     *app.App
	gateway *ai.Gateway
}

// ExplorePayload is the payload for an explore request
type ExplorePayload struct {
	Question string           `json:"question"`
	History  []ai.HistoryTurn `json:"history"`
}

// Explore handles POST /ai/explore. The reply streams as server-sent
// events. Provider failures mid-stream surface as a final error chunk
// in place of the DONE marker.
func (c *AI) Explore(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUser(w, r); !ok {
		return
	}

	var payload ExplorePayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	if !c.gateway.Configured() {
		middleware.RespondAppError(w, "exploring", app.NewError(app.KindServiceUnavailable, "AI service is not configured"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.DoError(w, "streaming", errors.New("response writer does not support streaming"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	err := c.gateway.Explore(r.Context(), payload.Question, payload.History, func(chunk string) error {
		fmt.Fprintf(w, "data: %s\n\n", chunk)
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.ErrorWrap(err, "streaming explore reply")
		fmt.Fprintf(w, "data: 对话异常：%s\n\n", err.Error())
		flusher.Flush()
		return
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// ExtractPointPayload is the payload for a cue point extraction request
type ExtractPointPayload struct {
	NoteContent string `json:"note_content"`
}

// ExtractPoint handles POST /ai/extractPoint
func (c *AI) ExtractPoint(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUser(w, r); !ok {
		return
	}

	var payload ExtractPointPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	points, err := c.gateway.ExtractCuePoints(r.Context(), payload.NoteContent)
	if err != nil {
		middleware.RespondAppError(w, "extracting cue points", c.mapGatewayError(err))
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string][]string{"cue_points": points})
}

// GenerateMindmapPayload is the payload for a mindmap generation request
type GenerateMindmapPayload struct {
	NoteContent string `json:"note_content"`
}

// GenerateMindmap handles POST /ai/generateMindmap
func (c *AI) GenerateMindmap(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUser(w, r); !ok {
		return
	}

	var payload GenerateMindmapPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	mindmap, err := c.gateway.GenerateMindmap(r.Context(), payload.NoteContent)
	if err != nil {
		middleware.RespondAppError(w, "generating mindmap", c.mapGatewayError(err))
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]ai.MindmapNode{"mindmap": mindmap})
}

// CheckSummaryPayload is the payload for a summary check request
type CheckSummaryPayload struct {
	NoteContent string `json:"note_content"`
	UserSummary string `json:"user_summary"`
}

// CheckSummary handles POST /ai/checkSummary
func (c *AI) CheckSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUser(w, r); !ok {
		return
	}

	var payload CheckSummaryPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	feedback, err := c.gateway.CheckSummary(r.Context(), payload.NoteContent, payload.UserSummary)
	if err != nil {
		middleware.RespondAppError(w, "checking summary", c.mapGatewayError(err))
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

// mapGatewayError classifies a gateway error for the transport layer
func (c *AI) mapGatewayError(err error) error {
	if errors.Is(err, ai.ErrNotConfigured) {
		return app.NewError(app.KindServiceUnavailable, "AI service is not configured")
	}

	log.ErrorWrap(err, "calling ai provider")
	return app.NewError(app.KindUpstream, "AI service error")
}
