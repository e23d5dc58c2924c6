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
	"strings"

	"golang.org/x/net/html"
)

// PlainText converts rich text from the note editor into plain text.
// Script and style bodies are dropped entirely. Input that is not valid
// HTML comes back as-is, since the tokenizer treats it as text.
func PlainText(richtext string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(richtext))

	var b strings.Builder
	var skipped string

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skipped = tag
			}
			if blockTag(tag) && b.Len() > 0 {
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == skipped {
				skipped = ""
			}
		case html.TextToken:
			if skipped != "" {
				continue
			}
			b.WriteString(string(tokenizer.Text()))
		}
	}
}

func blockTag(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
		return true
	}

	return false
}
