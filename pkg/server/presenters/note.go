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
	"encoding/json"
	"time"

	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/database"
)

// Note is a result of PresentNote
type Note struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	AccessLevel  string       `json:"access_level"`
	IsStarred    bool         `json:"is_starred"`
	IsArchived   bool         `json:"is_archived"`
	ViewCount    int          `json:"view_count"`
	WordCount    int          `json:"word_count"`
	NotebookID   string       `json:"notebook_id"`
	OwnerID      string       `json:"owner_id"`
	LastEditedBy *string      `json:"last_edited_by"`
	Content      *NoteContent `json:"content"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NoteContent is the nested content for PresentNote
type NoteContent struct {
	CueColumn   string          `json:"cue_column"`
	NoteColumn  string          `json:"note_column"`
	SummaryRow  string          `json:"summary_row"`
	MindmapData json.RawMessage `json:"mindmap_data"`
	Version     int             `json:"version"`
}

// PresentNote presents note
func PresentNote(note database.CornellNote) Note {
	ret := Note{
		ID:           note.ID,
		Title:        note.Title,
		AccessLevel:  note.AccessLevel,
		IsStarred:    note.IsStarred,
		IsArchived:   note.IsArchived,
		ViewCount:    note.ViewCount,
		WordCount:    note.WordCount,
		NotebookID:   note.NotebookID,
		OwnerID:      note.OwnerID,
		LastEditedBy: note.LastEditedBy,
		CreatedAt:    FormatTS(note.CreatedAt),
		UpdatedAt:    FormatTS(note.UpdatedAt),
	}

	if note.Content != nil {
		ret.Content = &NoteContent{
			CueColumn:   note.Content.CueColumn,
			NoteColumn:  note.Content.NoteColumn,
			SummaryRow:  note.Content.SummaryRow,
			MindmapData: json.RawMessage(note.Content.MindmapData),
			Version:     note.Content.Version,
		}
	}

	return ret
}

// NoteList is a paginated list of notes
type NoteList struct {
	Notes      []Note `json:"notes"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// PresentNoteList presents a page of notes
func PresentNoteList(result app.GetNotesResult) NoteList {
	notes := []Note{}
	for _, note := range result.Notes {
		notes = append(notes, PresentNote(note))
	}

	return NoteList{
		Notes:      notes,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
}
