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
	"regexp"
	"strings"

	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DefaultNotebookIcon is the icon assigned to the notebook created at
// registration time.
const DefaultNotebookIcon = "📚"

const defaultNotebookColor = "#3A6EA5"

// defaultNotebookTitle names the notebook created at registration
const defaultNotebookTitle = "default"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NotebookInfo is a notebook together with its active note count
type NotebookInfo struct {
	Notebook  database.Notebook
	NoteCount int
}

// GetNotebooksParams is the query for listing notebooks
type GetNotebooksParams struct {
	Page            int
	PerPage         int
	IncludeArchived bool
}

// GetNotebooksResult is a page of notebooks
type GetNotebooksResult struct {
	Notebooks  []NotebookInfo
	Total      int
	TotalPages int
}

// GetNotebooks returns the user's notebooks ordered by creation time,
// oldest first, each with its count of active notes.
func (a *App) GetNotebooks(user database.User, p GetNotebooksParams) (GetNotebooksResult, error) {
	page, perPage := normalizePage(p.Page, p.PerPage)

	baseQuery := func() *gorm.DB {
		conn := database.ActiveNotebooks(a.DB).Where("notebooks.owner_id = ?", user.ID)
		if !p.IncludeArchived {
			conn = conn.Where("notebooks.is_archived = ?", false)
		}

		return conn
	}

	var total int64
	if err := baseQuery().Model(&database.Notebook{}).Count(&total).Error; err != nil {
		return GetNotebooksResult{}, errors.Wrap(err, "counting notebooks")
	}

	var notebooks []database.Notebook
	if err := baseQuery().Order("notebooks.created_at ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notebooks).Error; err != nil {
		return GetNotebooksResult{}, errors.Wrap(err, "finding notebooks")
	}

	counts, err := a.noteCounts(user.ID)
	if err != nil {
		return GetNotebooksResult{}, err
	}

	infos := make([]NotebookInfo, 0, len(notebooks))
	for _, n := range notebooks {
		infos = append(infos, NotebookInfo{Notebook: n, NoteCount: counts[n.ID]})
	}

	return GetNotebooksResult{
		Notebooks:  infos,
		Total:      int(total),
		TotalPages: totalPages(int(total), perPage),
	}, nil
}

// noteCounts returns a map of notebook id to active note count for one owner
func (a *App) noteCounts(ownerID string) (map[string]int, error) {
	rows := []struct {
		NotebookID string
		Count      int
	}{}

	err := database.ActiveNotes(a.DB).
		Model(&database.CornellNote{}).
		Select("notebook_id, count(*) as count").
		Where("cornell_notes.owner_id = ?", ownerID).
		Group("notebook_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting notes per notebook")
	}

	counts := map[string]int{}
	for _, row := range rows {
		counts[row.NotebookID] = row.Count
	}

	return counts, nil
}

// CreateNotebookParams is the payload for creating a notebook
type CreateNotebookParams struct {
	Title       string
	Description string
	Color       string
	Icon        string
	IsPublic    bool
}

// CreateNotebook creates a notebook for the user
func (a *App) CreateNotebook(user database.User, p CreateNotebookParams) (database.Notebook, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return database.Notebook{}, NewError(KindValidation, "Title is required")
	}

	color := p.Color
	if color == "" {
		color = defaultNotebookColor
	}
	if !colorPattern.MatchString(color) {
		return database.Notebook{}, ErrInvalidColor
	}

	icon := p.Icon
	if icon == "" {
		icon = DefaultNotebookIcon
	}

	now := a.Clock.Now()
	notebook := database.Notebook{
		Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		Title:       title,
		Description: p.Description,
		Color:       color,
		Icon:        icon,
		IsPublic:    p.IsPublic,
		OwnerID:     user.ID,
	}
	if err := a.DB.Create(&notebook).Error; err != nil {
		return database.Notebook{}, errors.Wrap(err, "creating notebook")
	}

	return notebook, nil
}

// GetNotebook returns one of the user's notebooks with its note count
func (a *App) GetNotebook(user database.User, notebookID string) (NotebookInfo, error) {
	notebook, err := a.findNotebook(user, notebookID)
	if err != nil {
		return NotebookInfo{}, err
	}

	var count int64
	err = database.ActiveNotes(a.DB).
		Model(&database.CornellNote{}).
		Where("cornell_notes.notebook_id = ?", notebook.ID).
		Count(&count).Error
	if err != nil {
		return NotebookInfo{}, errors.Wrap(err, "counting notes")
	}

	return NotebookInfo{Notebook: notebook, NoteCount: int(count)}, nil
}

func (a *App) findNotebook(user database.User, notebookID string) (database.Notebook, error) {
	var notebook database.Notebook
	err := database.ActiveNotebooks(a.DB).
		Where("notebooks.id = ? AND notebooks.owner_id = ?", notebookID, user.ID).
		First(&notebook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Notebook{}, ErrNotebookNotFound
	} else if err != nil {
		return database.Notebook{}, errors.Wrap(err, "finding notebook")
	}

	return notebook, nil
}

// UpdateNotebookParams holds the notebook fields to change. Nil fields
// are left untouched.
type UpdateNotebookParams struct {
	Title       *string
	Description *string
	Color       *string
	Icon        *string
	IsArchived  *bool
	IsPublic    *bool
}

// UpdateNotebook applies a partial update to one of the user's notebooks
func (a *App) UpdateNotebook(user database.User, notebookID string, p UpdateNotebookParams) (database.Notebook, error) {
	notebook, err := a.findNotebook(user, notebookID)
	if err != nil {
		return database.Notebook{}, err
	}

	values := map[string]interface{}{}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return database.Notebook{}, NewError(KindValidation, "Title is required")
		}
		values["title"] = title
	}
	if p.Description != nil {
		values["description"] = *p.Description
	}
	if p.Color != nil {
		if !colorPattern.MatchString(*p.Color) {
			return database.Notebook{}, ErrInvalidColor
		}
		values["color"] = *p.Color
	}
	if p.Icon != nil {
		values["icon"] = *p.Icon
	}
	if p.IsArchived != nil {
		values["is_archived"] = *p.IsArchived
	}
	if p.IsPublic != nil {
		values["is_public"] = *p.IsPublic
	}

	if len(values) == 0 {
		return notebook, nil
	}
	values["updated_at"] = a.Clock.Now()

	if err := a.DB.Model(&notebook).Updates(values).Error; err != nil {
		return database.Notebook{}, errors.Wrap(err, "updating notebook")
	}

	// map-based Updates does not refresh the struct
	return a.findNotebook(user, notebookID)
}

// DeleteNotebook soft-deletes an empty notebook. A notebook that still
// holds active notes is not deletable.
func (a *App) DeleteNotebook(user database.User, notebookID string) error {
	notebook, err := a.findNotebook(user, notebookID)
	if err != nil {
		return err
	}

	var count int64
	err = database.ActiveNotes(a.DB).
		Model(&database.CornellNote{}).
		Where("cornell_notes.notebook_id = ?", notebook.ID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "counting notes")
	}
	if count > 0 {
		return Errorf(KindValidation, "Notebook still contains %d notes. Move or delete them first.", count)
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&notebook).Updates(map[string]interface{}{
		"deleted_at": now,
		"updated_at": now,
	}).Error; err != nil {
		return errors.Wrap(err, "deleting notebook")
	}

	return nil
}
