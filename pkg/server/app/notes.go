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

package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// noteSortFields whitelists the columns notes can be ordered by
var noteSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"view_count": true,
	"word_count": true,
}

// computeWordCount counts the runes of the combined note content after
// trimming surrounding whitespace.
func computeWordCount(cue, note, summary string) int {
	return utf8.RuneCountInString(strings.TrimSpace(cue + note + summary))
}

// GetNotesParams is the query for listing notes
type GetNotesParams struct {
	Page       int
	PerPage    int
	NotebookID string
	IsStarred  *bool
	Search     string
	Sort       string
}

// GetNotesResult is a page of notes
type GetNotesResult struct {
	Notes      []database.CornellNote
	Total      int
	TotalPages int
}

// GetNotes returns the user's active notes, filtered and sorted per params.
// Content rows are preloaded.
func (a *App) GetNotes(user database.User, p GetNotesParams) (GetNotesResult, error) {
	page, perPage := normalizePage(p.Page, p.PerPage)

	sort := p.Sort
	if sort == "" {
		sort = "created_at"
	}
	order := "ASC"
	if strings.HasPrefix(sort, "-") {
		sort = strings.TrimPrefix(sort, "-")
		order = "DESC"
	}
	if !noteSortFields[sort] {
		return GetNotesResult{}, ErrInvalidSortField
	}

	baseQuery := func() *gorm.DB {
		conn := database.ActiveNotes(a.DB).Where("cornell_notes.owner_id = ?", user.ID)
		if p.NotebookID != "" {
			conn = conn.Where("cornell_notes.notebook_id = ?", p.NotebookID)
		}
		if p.IsStarred != nil {
			conn = conn.Where("cornell_notes.is_starred = ?", *p.IsStarred)
		}
		if p.Search != "" {
			pattern := fmt.Sprintf("%%%s%%", p.Search)
			conn = conn.Where("cornell_notes.title LIKE ?", pattern)
		}

		return conn
	}

	var total int64
	if err := baseQuery().Model(&database.CornellNote{}).Count(&total).Error; err != nil {
		return GetNotesResult{}, errors.Wrap(err, "counting notes")
	}

	var notes []database.CornellNote
	if err := baseQuery().Preload("Content").
		Order(fmt.Sprintf("cornell_notes.%s %s", sort, order)).
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notes).Error; err != nil {
		return GetNotesResult{}, errors.Wrap(err, "finding notes")
	}

	return GetNotesResult{
		Notes:      notes,
		Total:      int(total),
		TotalPages: totalPages(int(total), perPage),
	}, nil
}

// NoteContentParams holds the content fields of a note. Nil fields are
// left untouched on update.
type NoteContentParams struct {
	CueColumn  *string
	NoteColumn *string
	SummaryRow *string
	Mindmap    datatypes.JSON
}

// CreateNoteParams is the payload for creating a note
type CreateNoteParams struct {
	Title       string
	NotebookID  string
	AccessLevel string
	Content     NoteContentParams
}

// CreateNote creates a note and its content row in one transaction. When no
// notebook is given, the note goes into the user's oldest active notebook.
func (a *App) CreateNote(user database.User, p CreateNoteParams) (database.CornellNote, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return database.CornellNote{}, NewError(KindValidation, "Title is required")
	}

	accessLevel := p.AccessLevel
	if accessLevel == "" {
		accessLevel = database.AccessPrivate
	}
	if !database.ValidAccessLevel(accessLevel) {
		return database.CornellNote{}, ErrInvalidAccessLevel
	}

	var notebook database.Notebook
	if p.NotebookID != "" {
		var err error
		notebook, err = a.findNotebook(user, p.NotebookID)
		if err != nil {
			return database.CornellNote{}, err
		}
	} else {
		err := database.ActiveNotebooks(a.DB).
			Where("notebooks.owner_id = ?", user.ID).
			Order("notebooks.created_at ASC").
			First(&notebook).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.CornellNote{}, ErrNotebookNotFound
		} else if err != nil {
			return database.CornellNote{}, errors.Wrap(err, "finding default notebook")
		}
	}

	cue := strValue(p.Content.CueColumn)
	noteCol := strValue(p.Content.NoteColumn)
	summary := strValue(p.Content.SummaryRow)

	now := a.Clock.Now()
	note := database.CornellNote{
		Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		Title:       title,
		AccessLevel: accessLevel,
		WordCount:   computeWordCount(cue, noteCol, summary),
		NotebookID:  notebook.ID,
		OwnerID:     user.ID,
	}

	tx := a.DB.Begin()

	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return database.CornellNote{}, errors.Wrap(err, "creating note")
	}

	content := database.NoteContent{
		Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		NoteID:      note.ID,
		CueColumn:   cue,
		NoteColumn:  noteCol,
		SummaryRow:  summary,
		MindmapData: p.Content.Mindmap,
		Version:     1,
		IsSynced:    true,
	}
	if err := tx.Create(&content).Error; err != nil {
		tx.Rollback()
		return database.CornellNote{}, errors.Wrap(err, "creating note content")
	}

	if err := tx.Commit().Error; err != nil {
		return database.CornellNote{}, errors.Wrap(err, "committing")
	}

	note.Content = &content
	return note, nil
}

// GetNote returns a note if the caller may read it, and records the read
// by bumping view_count. Non-owners may read shared and public notes only.
func (a *App) GetNote(user database.User, noteID string) (database.CornellNote, error) {
	var note database.CornellNote
	err := database.ActiveNotes(a.DB).
		Preload("Content").
		Where("cornell_notes.id = ?", noteID).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.CornellNote{}, ErrNoteNotFound
	} else if err != nil {
		return database.CornellNote{}, errors.Wrap(err, "finding note")
	}

	if note.OwnerID != user.ID && note.AccessLevel == database.AccessPrivate {
		return database.CornellNote{}, ErrNoteAccessDenied
	}

	if err := a.DB.Model(&note).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return database.CornellNote{}, errors.Wrap(err, "bumping view count")
	}
	// UpdateColumn with an expression does not refresh the struct
	note.ViewCount++

	return note, nil
}

// UpdateNoteParams holds the note fields to change. Nil fields are left
// untouched.
type UpdateNoteParams struct {
	Title       *string
	NotebookID  *string
	AccessLevel *string
	IsStarred   *bool
	IsArchived  *bool
	Content     *NoteContentParams
}

// UpdateNote applies a partial update to one of the user's notes. Content
// changes bump the version and recompute the word count.
func (a *App) UpdateNote(user database.User, noteID string, p UpdateNoteParams) (database.CornellNote, error) {
	note, err := a.findOwnedNote(user, noteID)
	if err != nil {
		return database.CornellNote{}, err
	}

	values := map[string]interface{}{}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return database.CornellNote{}, NewError(KindValidation, "Title is required")
		}
		values["title"] = title
	}
	if p.NotebookID != nil && *p.NotebookID != note.NotebookID {
		if _, err := a.findNotebook(user, *p.NotebookID); err != nil {
			return database.CornellNote{}, err
		}
		values["notebook_id"] = *p.NotebookID
	}
	if p.AccessLevel != nil {
		if !database.ValidAccessLevel(*p.AccessLevel) {
			return database.CornellNote{}, ErrInvalidAccessLevel
		}
		values["access_level"] = *p.AccessLevel
	}
	if p.IsStarred != nil {
		values["is_starred"] = *p.IsStarred
	}
	if p.IsArchived != nil {
		values["is_archived"] = *p.IsArchived
	}

	now := a.Clock.Now()

	tx := a.DB.Begin()

	if p.Content != nil {
		var content database.NoteContent
		err := tx.Where("note_id = ?", note.ID).First(&content).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			content = database.NoteContent{
				Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
				NoteID:      note.ID,
				CueColumn:   strValue(p.Content.CueColumn),
				NoteColumn:  strValue(p.Content.NoteColumn),
				SummaryRow:  strValue(p.Content.SummaryRow),
				MindmapData: p.Content.Mindmap,
				Version:     1,
				IsSynced:    true,
			}
			if err := tx.Create(&content).Error; err != nil {
				tx.Rollback()
				return database.CornellNote{}, errors.Wrap(err, "creating note content")
			}
		} else if err != nil {
			tx.Rollback()
			return database.CornellNote{}, errors.Wrap(err, "finding note content")
		} else {
			if p.Content.CueColumn != nil {
				content.CueColumn = *p.Content.CueColumn
			}
			if p.Content.NoteColumn != nil {
				content.NoteColumn = *p.Content.NoteColumn
			}
			if p.Content.SummaryRow != nil {
				content.SummaryRow = *p.Content.SummaryRow
			}
			if p.Content.Mindmap != nil {
				content.MindmapData = p.Content.Mindmap
			}
			content.Version++
			content.UpdatedAt = now

			if err := tx.Save(&content).Error; err != nil {
				tx.Rollback()
				return database.CornellNote{}, errors.Wrap(err, "updating note content")
			}
		}

		values["word_count"] = computeWordCount(content.CueColumn, content.NoteColumn, content.SummaryRow)
		note.Content = &content
	}

	values["last_edited_by"] = user.ID
	values["updated_at"] = now

	if err := tx.Model(&note).Updates(values).Error; err != nil {
		tx.Rollback()
		return database.CornellNote{}, errors.Wrap(err, "updating note")
	}

	if err := tx.Commit().Error; err != nil {
		return database.CornellNote{}, errors.Wrap(err, "committing")
	}

	// map-based Updates does not refresh the struct
	var updated database.CornellNote
	if err := a.DB.Preload("Content").Where("id = ?", note.ID).First(&updated).Error; err != nil {
		return database.CornellNote{}, errors.Wrap(err, "reloading note")
	}

	return updated, nil
}

// CopyNote duplicates a readable note into one of the caller's notebooks.
// The copy belongs to the caller and starts with fresh counters.
func (a *App) CopyNote(user database.User, noteID, targetNotebookID string) (database.CornellNote, error) {
	var source database.CornellNote
	err := database.ActiveNotes(a.DB).
		Preload("Content").
		Where("cornell_notes.id = ?", noteID).
		First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.CornellNote{}, ErrNoteNotFound
	} else if err != nil {
		return database.CornellNote{}, errors.Wrap(err, "finding note")
	}

	if source.OwnerID != user.ID && source.AccessLevel == database.AccessPrivate {
		return database.CornellNote{}, ErrNoteAccessDenied
	}

	if targetNotebookID == "" {
		targetNotebookID = source.NotebookID
	}
	if _, err := a.findNotebook(user, targetNotebookID); err != nil {
		return database.CornellNote{}, err
	}

	now := a.Clock.Now()
	copied := database.CornellNote{
		Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		Title:       source.Title + " (copy)",
		AccessLevel: source.AccessLevel,
		WordCount:   source.WordCount,
		NotebookID:  targetNotebookID,
		OwnerID:     user.ID,
	}

	tx := a.DB.Begin()

	if err := tx.Create(&copied).Error; err != nil {
		tx.Rollback()
		return database.CornellNote{}, errors.Wrap(err, "creating note")
	}

	content := database.NoteContent{
		Model:    database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		NoteID:   copied.ID,
		Version:  1,
		IsSynced: true,
	}
	if source.Content != nil {
		content.CueColumn = source.Content.CueColumn
		content.NoteColumn = source.Content.NoteColumn
		content.SummaryRow = source.Content.SummaryRow
		content.MindmapData = source.Content.MindmapData
	}
	if err := tx.Create(&content).Error; err != nil {
		tx.Rollback()
		return database.CornellNote{}, errors.Wrap(err, "creating note content")
	}

	if err := tx.Commit().Error; err != nil {
		return database.CornellNote{}, errors.Wrap(err, "committing")
	}

	copied.Content = &content
	return copied, nil
}

// DeleteNote soft-deletes one of the user's notes
func (a *App) DeleteNote(user database.User, noteID string) error {
	note, err := a.findOwnedNote(user, noteID)
	if err != nil {
		return err
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&note).Updates(map[string]interface{}{
		"deleted_at": now,
		"updated_at": now,
	}).Error; err != nil {
		return errors.Wrap(err, "deleting note")
	}

	return nil
}

// findOwnedNote returns an active note if the caller owns it. Notes of
// other users yield a forbidden error rather than not-found when visible.
func (a *App) findOwnedNote(user database.User, noteID string) (database.CornellNote, error) {
	var note database.CornellNote
	err := database.ActiveNotes(a.DB).
		Where("cornell_notes.id = ?", noteID).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.CornellNote{}, ErrNoteNotFound
	} else if err != nil {
		return database.CornellNote{}, errors.Wrap(err, "finding note")
	}

	if note.OwnerID != user.ID {
		return database.CornellNote{}, ErrNoteEditDenied
	}

	return note, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
