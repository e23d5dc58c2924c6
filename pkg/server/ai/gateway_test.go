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

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cornellnotes/cornell/pkg/assert"
	"github.com/cornellnotes/cornell/pkg/server/config"
)

// stubProvider is an OpenAI-compatible endpoint that replies with a fixed
// completion and counts invocations
type stubProvider struct {
	reply string
	calls int
}

func (s *stubProvider) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.calls++

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": s.reply}},
			},
		})
	}
}

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway := NewGateway(config.Config{
		AIBaseURL:     server.URL,
		AIAPIKey:      "test-key",
		AIModel:       "test-model",
		AITimeoutSecs: 5,
	})

	return gateway, server
}

func TestGateway_NotConfigured(t *testing.T) {
	gateway := NewGateway(config.Config{})

	assert.Equal(t, gateway.Configured(), false, "gateway must not be configured")

	err := gateway.Explore(context.Background(), "q", nil, nil)
	assert.Equal(t, err, ErrNotConfigured, "explore error mismatch")

	_, err = gateway.ExtractCuePoints(context.Background(), "some note content here")
	assert.Equal(t, err, ErrNotConfigured, "extract error mismatch")

	_, err = gateway.GenerateMindmap(context.Background(), "some note content here")
	assert.Equal(t, err, ErrNotConfigured, "mindmap error mismatch")

	_, err = gateway.CheckSummary(context.Background(), "note", "summary")
	assert.Equal(t, err, ErrNotConfigured, "check summary error mismatch")
}

func TestExtractCuePoints(t *testing.T) {
	stub := &stubProvider{reply: "什么是细胞分裂？\n\n# 提炼结果\n有丝分裂的各个阶段\n为什么细胞要分裂？"}
	gateway, _ := newTestGateway(t, stub.handler())

	points, err := gateway.ExtractCuePoints(context.Background(), "<p>细胞分裂是细胞增殖的基本方式，分为有丝分裂和减数分裂。</p>")
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"什么是细胞分裂？", "有丝分裂的各个阶段", "为什么细胞要分裂？"}
	assert.DeepEqual(t, points, expected, "cue points mismatch")
	assert.Equal(t, stub.calls, 1, "provider call count mismatch")
}

func TestExtractCuePoints_ShortNote(t *testing.T) {
	stub := &stubProvider{reply: "should never be used"}
	gateway, _ := newTestGateway(t, stub.handler())

	points, err := gateway.ExtractCuePoints(context.Background(), "<p>short</p>")
	if err != nil {
		t.Fatal(err)
	}

	assert.DeepEqual(t, points, []string{}, "short note must yield an empty list")
	assert.Equal(t, stub.calls, 0, "short note must not reach the provider")
}

func TestExtractCuePoints_Cap(t *testing.T) {
	lines := make([]string, 15)
	for i := range lines {
		lines[i] = fmt.Sprintf("线索%d", i+1)
	}
	stub := &stubProvider{reply: strings.Join(lines, "\n")}
	gateway, _ := newTestGateway(t, stub.handler())

	points, err := gateway.ExtractCuePoints(context.Background(), "细胞分裂是细胞增殖的基本方式。")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(points), 10, "cue points must be capped")
	assert.Equal(t, points[9], "线索10", "capped list mismatch")
}

func TestGenerateMindmap(t *testing.T) {
	reply := "```json\n{\"id\": \"root\", \"label\": \"细胞分裂\", \"children\": [{\"id\": \"node-1\", \"label\": \"有丝分裂\", \"children\": []}]}\n```"
	stub := &stubProvider{reply: reply}
	gateway, _ := newTestGateway(t, stub.handler())

	node, err := gateway.GenerateMindmap(context.Background(), "细胞分裂是细胞增殖的基本方式。")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, node.ID, "root", "root id mismatch")
	assert.Equal(t, node.Label, "细胞分裂", "root label mismatch")
	assert.Equal(t, len(node.Children), 1, "child count mismatch")
}

func TestGenerateMindmap_BareJSON(t *testing.T) {
	stub := &stubProvider{reply: `{"id": "root", "label": "细胞分裂", "children": []}`}
	gateway, _ := newTestGateway(t, stub.handler())

	node, err := gateway.GenerateMindmap(context.Background(), "细胞分裂是细胞增殖的基本方式。")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, node.Label, "细胞分裂", "unfenced reply must still parse")
}

func TestGenerateMindmap_ParseFailure(t *testing.T) {
	stub := &stubProvider{reply: "I cannot produce JSON today."}
	gateway, _ := newTestGateway(t, stub.handler())

	node, err := gateway.GenerateMindmap(context.Background(), "细胞分裂是细胞增殖的基本方式。")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, node.Label, "解析失败", "fallback root mismatch")
	assert.Equal(t, len(node.Children), 1, "fallback must have one child")
	assert.Equal(t, node.Children[0].Label, "AI返回格式错误", "fallback child mismatch")
}

func TestGenerateMindmap_ShortNote(t *testing.T) {
	stub := &stubProvider{reply: "unused"}
	gateway, _ := newTestGateway(t, stub.handler())

	node, err := gateway.GenerateMindmap(context.Background(), "short")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, node.Label, "空笔记", "placeholder root mismatch")
	assert.Equal(t, stub.calls, 0, "short note must not reach the provider")
}

func TestCheckSummary(t *testing.T) {
	stub := &stubProvider{reply: "## ✅ 总结质量评价\n总结准确。"}
	gateway, _ := newTestGateway(t, stub.handler())

	feedback, err := gateway.CheckSummary(context.Background(),
		"细胞分裂是细胞增殖的基本方式。", "细胞通过分裂增殖")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, feedback, "## ✅ 总结质量评价\n总结准确。", "feedback must be verbatim")
	assert.Equal(t, stub.calls, 1, "provider call count mismatch")
}

func TestCheckSummary_ShortInputs(t *testing.T) {
	stub := &stubProvider{reply: "unused"}
	gateway, _ := newTestGateway(t, stub.handler())

	feedback, err := gateway.CheckSummary(context.Background(), "short", "长度足够的总结")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, feedback, feedbackEmptyNote, "empty note feedback mismatch")

	feedback, err = gateway.CheckSummary(context.Background(), "细胞分裂是细胞增殖的基本方式。", "短")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, feedback, feedbackEmptySummary, "empty summary feedback mismatch")

	assert.Equal(t, stub.calls, 0, "short inputs must not reach the provider")
}

func TestExplore(t *testing.T) {
	var gotMessages []Message

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []Message `json:"messages"`
			Stream   bool      `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
		}
		gotMessages = req.Messages
		assert.Equal(t, req.Stream, true, "explore must stream")

		w.Header().Set("Content-Type", "text/event-stream")
		for _, content := range []string{"有丝", "分裂"} {
			chunk := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"delta": map[string]string{"content": content}},
				},
			}
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
		fmt.Fprintf(w, "data: [DONE]\n\n")
	})
	gateway, _ := newTestGateway(t, handler)

	history := []HistoryTurn{
		{Role: "user", Content: "h1"},
		{Role: "assistant", Content: "h2"},
		{Role: "user", Content: "h3"},
		{Role: "assistant", Content: "h4"},
		{Role: "user", Content: "h5"},
		{Role: "assistant", Content: "h6"},
	}

	var chunks []string
	err := gateway.Explore(context.Background(), "什么是有丝分裂？", history, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.DeepEqual(t, chunks, []string{"有丝", "分裂"}, "chunks mismatch")

	// system prompt + 4 most recent turns + question
	assert.Equal(t, len(gotMessages), 6, "message count mismatch")
	assert.Equal(t, gotMessages[0].Role, RoleSystem, "first message must be the system prompt")
	assert.Equal(t, gotMessages[1].Content, "h3", "oldest history turns must be dropped")
	assert.Equal(t, gotMessages[5].Content, "什么是有丝分裂？", "question must be the final turn")
}

func TestPlainText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "<p>hello</p>", expected: "hello"},
		{input: "plain text", expected: "plain text"},
		{input: "<div>a<script>alert(1)</script>b</div>", expected: "ab"},
		{input: "<style>.x{color:red}</style>text", expected: "text"},
		{input: "<p>one</p><p>two</p>", expected: "one\ntwo"},
	}

	for _, tc := range testCases {
		got := PlainText(tc.input)
		assert.Equal(t, got, tc.expected, "plain text mismatch")
	}
}
