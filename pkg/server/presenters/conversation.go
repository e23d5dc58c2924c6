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

package presenters

import (
	"time"

	"github.com/cornellnotes/cornell/pkg/server/database"
)

// Conversation is a result of PresentConversation
type Conversation struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"note_id"`
	Title     string    `json:"title"`
	QACount   int       `json:"qa_count"`
	QAPairs   []QAPair  `json:"qa_pairs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QAPair is one exchange of a conversation
type QAPair struct {
	Question     string    `json:"question"`
	QuestionTime time.Time `json:"question_time"`
	Answer       string    `json:"answer"`
	AnswerTime   time.Time `json:"answer_time"`
	Sequence     int       `json:"sequence"`
}

// PresentConversation presents an explore conversation
func PresentConversation(conversation database.ExploreConversation) Conversation {
	pairs := []QAPair{}
	for _, pair := range conversation.QAPairs {
		pairs = append(pairs, QAPair{
			Question:     pair.Question,
			QuestionTime: FormatTS(pair.QuestionTime),
			Answer:       pair.Answer,
			AnswerTime:   FormatTS(pair.AnswerTime),
			Sequence:     pair.Sequence,
		})
	}

	return Conversation{
		ID:        conversation.ID,
		NoteID:    conversation.NoteID,
		Title:     conversation.Title,
		QACount:   conversation.QACount,
		QAPairs:   pairs,
		CreatedAt: FormatTS(conversation.CreatedAt),
		UpdatedAt: FormatTS(conversation.UpdatedAt),
	}
}
