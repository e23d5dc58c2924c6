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

// Package ai proxies note-taking assistance to an OpenAI-compatible
// provider. The gateway holds no conversation state; callers pass the full
// context on every request.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cornellnotes/cornell/pkg/server/config"
	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when the provider settings are incomplete
var ErrNotConfigured = errors.New("ai service is not configured")

// minimum plain-text lengths before the provider is consulted
const (
	minNoteTextLen    = 10
	minSummaryTextLen = 5
)

const maxCuePoints = 10

// historyLimit caps how many prior turns are forwarded on explore requests
const historyLimit = 4

// Gateway exposes the note-taking AI operations
type Gateway struct {
	client *client
}

// NewGateway returns a gateway based on the given config. A gateway with
// incomplete provider settings is still constructed; its operations fail
// with ErrNotConfigured before any network call.
func NewGateway(c config.Config) *Gateway {
	g := &Gateway{}

	if c.AIBaseURL != "" && c.AIAPIKey != "" && c.AIModel != "" {
		g.client = newClient(c.AIBaseURL, c.AIAPIKey, c.AIModel, time.Duration(c.AITimeoutSecs)*time.Second)
	}

	return g
}

// Configured reports whether the provider settings are complete
func (g *Gateway) Configured() bool {
	return g.client != nil
}

// HistoryTurn is one prior turn of an explore conversation
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Explore streams a structured explanation of the question. Prior turns
// beyond the most recent few are dropped. The question is appended as a
// final user turn. Deltas are delivered through onChunk; cancelling ctx
// aborts the upstream request.
func (g *Gateway) Explore(ctx context.Context, question string, history []HistoryTurn, onChunk func(string) error) error {
	if g.client == nil {
		return ErrNotConfigured
	}

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: explorePrompt})
	for _, turn := range history {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: RoleUser, Content: question})

	_, err := g.client.chatStream(ctx, messages, onChunk)
	return err
}

// ExtractCuePoints distills cue-column entries from note content. Notes too
// short to distill yield an empty list without consulting the provider.
func (g *Gateway) ExtractCuePoints(ctx context.Context, noteRichtext string) ([]string, error) {
	if g.client == nil {
		return nil, ErrNotConfigured
	}

	text := PlainText(noteRichtext)
	if len([]rune(text)) < minNoteTextLen {
		return []string{}, nil
	}

	reply, err := g.client.chat(ctx, []Message{
		{Role: RoleSystem, Content: cuePointsPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("请根据以下笔记内容，提炼适合康奈尔笔记线索栏的关键线索和问题：\n\n%s", text)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "requesting cue points")
	}

	points := []string{}
	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		points = append(points, line)
		if len(points) == maxCuePoints {
			break
		}
	}

	return points, nil
}

// GenerateMindmap turns note content into a mindmap tree. Replies that do
// not parse come back as a fixed tree signaling the failure rather than an
// error, so the editor always has something to render.
func (g *Gateway) GenerateMindmap(ctx context.Context, noteRichtext string) (MindmapNode, error) {
	if g.client == nil {
		return MindmapNode{}, ErrNotConfigured
	}

	text := PlainText(noteRichtext)
	if len([]rune(text)) < minNoteTextLen {
		return emptyNoteMindmap(), nil
	}

	reply, err := g.client.chat(ctx, []Message{
		{Role: RoleSystem, Content: mindmapPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("请根据以下笔记内容生成思维导图JSON：\n\n%s", text)},
	})
	if err != nil {
		return MindmapNode{}, errors.Wrap(err, "requesting mindmap")
	}

	node, err := parseMindmap(reply)
	if err != nil {
		return parseFailureMindmap(), nil
	}

	return node, nil
}

// CheckSummary reviews the user's summary against the note content and
// returns the provider's feedback verbatim. Inputs too short to review get
// a fixed local message.
func (g *Gateway) CheckSummary(ctx context.Context, noteRichtext, summaryRichtext string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}

	noteText := PlainText(noteRichtext)
	if len([]rune(noteText)) < minNoteTextLen {
		return feedbackEmptyNote, nil
	}

	summaryText := PlainText(summaryRichtext)
	if len([]rune(summaryText)) < minSummaryTextLen {
		return feedbackEmptySummary, nil
	}

	feedback, err := g.client.chat(ctx, []Message{
		{Role: RoleSystem, Content: summaryCheckPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("请检查以下笔记的总结：\n\n## 笔记内容\n%s\n\n## 用户的总结\n%s", noteText, summaryText)},
	})
	if err != nil {
		return "", errors.Wrap(err, "requesting summary feedback")
	}

	return feedback, nil
}
