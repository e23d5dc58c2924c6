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
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"
)

// MindmapNode is one node of a mindmap tree
type MindmapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindmapNode `json:"children"`
}

var fencedJSONPattern = regexp.MustCompile("```json\\s*(\\{[\\s\\S]*?\\})\\s*```")

// parseMindmap extracts a mindmap tree from a model reply. The tree may be
// wrapped in a fenced json block or be the whole reply.
func parseMindmap(reply string) (MindmapNode, error) {
	jsonStr := reply
	if match := fencedJSONPattern.FindStringSubmatch(reply); match != nil {
		jsonStr = match[1]
	}

	var node MindmapNode
	if err := json.Unmarshal([]byte(jsonStr), &node); err != nil {
		return MindmapNode{}, errors.Wrap(err, "unmarshaling mindmap")
	}
	if node.ID == "" || node.Label == "" {
		return MindmapNode{}, errors.New("mindmap node missing id or label")
	}

	return node, nil
}

// emptyNoteMindmap is the tree returned when the note is too short to map
func emptyNoteMindmap() MindmapNode {
	return MindmapNode{
		ID:       "root",
		Label:    "空笔记",
		Children: []MindmapNode{},
	}
}

// parseFailureMindmap is the tree returned when the model reply does not
// parse as a mindmap
func parseFailureMindmap() MindmapNode {
	return MindmapNode{
		ID:    "root",
		Label: "解析失败",
		Children: []MindmapNode{
			{ID: "node-1", Label: "AI返回格式错误", Children: []MindmapNode{}},
		},
	}
}
