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
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// QAPairParams is one question and answer exchange to persist
type QAPairParams struct {
	Question string
	Answer   string
}

// SaveConversationParams is the payload for saving an explore conversation
type SaveConversationParams struct {
	NoteID string
	Title  string
	Pairs  []QAPairParams
}

// SaveConversation stores the explore conversation for a note. A note has
// at most one conversation per user; saving again replaces every pair.
func (a *App) SaveConversation(user database.User, p SaveConversationParams) (database.ExploreConversation, error) {
	if err := a.checkNoteOwned(user, p.NoteID); err != nil {
		return database.ExploreConversation{}, err
	}

	now := a.Clock.Now()

	tx := a.DB.Begin()

	var conversation database.ExploreConversation
	err := tx.Where("note_id = ? AND user_id = ?", p.NoteID, user.ID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = database.ExploreConversation{
			Model:   database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
			NoteID:  p.NoteID,
			UserID:  user.ID,
			Title:   p.Title,
			QACount: len(p.Pairs),
		}
		if err := tx.Create(&conversation).Error; err != nil {
			tx.Rollback()
			return database.ExploreConversation{}, errors.Wrap(err, "creating conversation")
		}
	} else if err != nil {
		tx.Rollback()
		return database.ExploreConversation{}, errors.Wrap(err, "finding conversation")
	} else {
		if err := tx.Where("conversation_id = ?", conversation.ID).
			Delete(&database.ExploreQAPair{}).Error; err != nil {
			tx.Rollback()
			return database.ExploreConversation{}, errors.Wrap(err, "deleting qa pairs")
		}

		if err := tx.Model(&conversation).Updates(map[string]interface{}{
			"title":      p.Title,
			"qa_count":   len(p.Pairs),
			"updated_at": now,
		}).Error; err != nil {
			tx.Rollback()
			return database.ExploreConversation{}, errors.Wrap(err, "updating conversation")
		}
		conversation.Title = p.Title
		conversation.QACount = len(p.Pairs)
	}

	pairs := make([]database.ExploreQAPair, 0, len(p.Pairs))
	for i, pair := range p.Pairs {
		row := database.ExploreQAPair{
			Model:          database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
			ConversationID: conversation.ID,
			Question:       pair.Question,
			QuestionTime:   now,
			Answer:         pair.Answer,
			AnswerTime:     now,
			Sequence:       i + 1,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return database.ExploreConversation{}, errors.Wrap(err, "creating qa pair")
		}
		pairs = append(pairs, row)
	}

	if err := tx.Commit().Error; err != nil {
		return database.ExploreConversation{}, errors.Wrap(err, "committing")
	}

	conversation.QAPairs = pairs
	return conversation, nil
}

// GetConversation returns the user's saved conversation for a note, or nil
// when none has been saved yet.
func (a *App) GetConversation(user database.User, noteID string) (*database.ExploreConversation, error) {
	if err := a.checkNoteOwned(user, noteID); err != nil {
		return nil, err
	}

	var conversation database.ExploreConversation
	err := a.DB.Preload("QAPairs", func(db *gorm.DB) *gorm.DB {
		return db.Order("explore_qa_pairs.sequence ASC")
	}).Where("note_id = ? AND user_id = ?", noteID, user.ID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "finding conversation")
	}

	return &conversation, nil
}

// DeleteConversation removes the user's saved conversation for a note
func (a *App) DeleteConversation(user database.User, noteID string) error {
	if err := a.checkNoteOwned(user, noteID); err != nil {
		return err
	}

	var conversation database.ExploreConversation
	err := a.DB.Where("note_id = ? AND user_id = ?", noteID, user.ID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrConversationNotFound
	} else if err != nil {
		return errors.Wrap(err, "finding conversation")
	}

	tx := a.DB.Begin()

	if err := tx.Where("conversation_id = ?", conversation.ID).
		Delete(&database.ExploreQAPair{}).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting qa pairs")
	}
	if err := tx.Delete(&conversation).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting conversation")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing")
	}

	return nil
}

// checkNoteOwned verifies the note exists, is active, and belongs to the
// user. Conversations hang off notes, so a foreign note reads as missing.
func (a *App) checkNoteOwned(user database.User, noteID string) error {
	var count int64
	err := database.ActiveNotes(a.DB).
		Model(&database.CornellNote{}).
		Where("cornell_notes.id = ? AND cornell_notes.owner_id = ?", noteID, user.ID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "checking note")
	}
	if count == 0 {
		return ErrNoteNotFound
	}

	return nil
}
