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

	"github.com/cornellnotes/cornell/pkg/server/app"
)

// Notebook is a result of PresentNotebook
type Notebook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsArchived  bool      `json:"is_archived"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     string    `json:"owner_id"`
	NoteCount   int       `json:"note_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PresentNotebook presents a notebook with its note count
func PresentNotebook(info app.NotebookInfo) Notebook {
	n := info.Notebook

	return Notebook{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
		Icon:        n.Icon,
		IsArchived:  n.IsArchived,
		IsPublic:    n.IsPublic,
		OwnerID:     n.OwnerID,
		NoteCount:   info.NoteCount,
		CreatedAt:   FormatTS(n.CreatedAt),
		UpdatedAt:   FormatTS(n.UpdatedAt),
	}
}

// NotebookList is a paginated list of notebooks
type NotebookList struct {
	Notebooks  []Notebook `json:"notebooks"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// PresentNotebookList presents a page of notebooks
func PresentNotebookList(result app.GetNotebooksResult) NotebookList {
	notebooks := []Notebook{}
	for _, info := range result.Notebooks {
		notebooks = append(notebooks, PresentNotebook(info))
	}

	return NotebookList{
		Notebooks:  notebooks,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
}
