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

package database

import (
	"time"

	"gorm.io/datatypes"
)

// User types
const (
	UserTypeStudent = "student"
	UserTypeTeacher = "teacher"
	UserTypeParent  = "parent"
	UserTypeAdmin   = "admin"
)

// ValidUserType checks if the given value is a known user type
func ValidUserType(t string) bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeParent, UserTypeAdmin:
		return true
	}
	return false
}

// Access levels for a note
const (
	AccessPrivate = "private"
	AccessShared  = "shared"
	AccessPublic  = "public"
)

// ValidAccessLevel checks if the given value is a known access level
func ValidAccessLevel(l string) bool {
	switch l {
	case AccessPrivate, AccessShared, AccessPublic:
		return true
	}
	return false
}

// Model is the base model definition
type Model struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	Username     string     `json:"username" gorm:"uniqueIndex;type:text"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:text"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	AvatarURL    string     `json:"avatar_url"`
	Bio          string     `json:"bio"`
	Phone        string     `json:"phone"`
	Location     string     `json:"location"`
	UserType     string     `json:"user_type" gorm:"index;default:student"`
	Verified     bool       `json:"verified" gorm:"default:false"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login"`
}

// Notebook is a container of notes owned by a single user
type Notebook struct {
	Model
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Color       string     `json:"color" gorm:"default:#3A6EA5"`
	Icon        string     `json:"icon"`
	IsArchived  bool       `json:"is_archived" gorm:"index;default:false"`
	IsPublic    bool       `json:"is_public" gorm:"default:false"`
	DeletedAt   *time.Time `json:"-"`
	OwnerID     string     `json:"owner_id" gorm:"index;type:text"`
	Owner       User       `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// CornellNote is a note with cue, note and summary regions. Its content lives
// in a NoteContent row created together with the note.
type CornellNote struct {
	Model
	Title        string       `json:"title"`
	AccessLevel  string       `json:"access_level" gorm:"default:private"`
	IsStarred    bool         `json:"is_starred" gorm:"index;default:false"`
	IsArchived   bool         `json:"is_archived" gorm:"default:false"`
	ViewCount    int          `json:"view_count" gorm:"default:0"`
	WordCount    int          `json:"word_count" gorm:"default:0"`
	DeletedAt    *time.Time   `json:"-"`
	NotebookID   string       `json:"notebook_id" gorm:"index;type:text"`
	Notebook     Notebook     `json:"-" gorm:"foreignKey:NotebookID;constraint:OnDelete:CASCADE"`
	OwnerID      string       `json:"owner_id" gorm:"index;type:text"`
	Owner        User         `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	LastEditedBy *string      `json:"last_edited_by" gorm:"type:text"`
	Editor       *User        `json:"-" gorm:"foreignKey:LastEditedBy;constraint:OnDelete:SET NULL"`
	Content      *NoteContent `json:"content" gorm:"foreignKey:NoteID"`
}

// NoteContent holds the three content columns of a Cornell note
type NoteContent struct {
	Model
	NoteID      string         `json:"note_id" gorm:"uniqueIndex;type:text"`
	Note        *CornellNote   `json:"-" gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
	CueColumn   string         `json:"cue_column" gorm:"type:text"`
	NoteColumn  string         `json:"note_column" gorm:"type:text"`
	SummaryRow  string         `json:"summary_row" gorm:"type:text"`
	MindmapData datatypes.JSON `json:"mindmap_data"`
	Version     int            `json:"version" gorm:"default:1"`
	IsSynced    bool           `json:"is_synced" gorm:"default:true"`
	SyncError   string         `json:"sync_error"`
}

// ExploreConversation is the explore dialog attached to a note. There is at
// most one per (note, user) pair, enforced by the store, not the schema.
type ExploreConversation struct {
	Model
	NoteID  string          `json:"note_id" gorm:"index;type:text"`
	Note    *CornellNote    `json:"-" gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
	UserID  string          `json:"user_id" gorm:"index;type:text"`
	User    *User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title   string          `json:"title"`
	QACount int             `json:"qa_count" gorm:"default:0"`
	QAPairs []ExploreQAPair `json:"qa_pairs" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// ExploreQAPair is a single question/answer turn within a conversation
type ExploreQAPair struct {
	Model
	ConversationID string    `json:"conversation_id" gorm:"index;type:text"`
	Question       string    `json:"question" gorm:"type:text"`
	QuestionTime   time.Time `json:"question_time"`
	Answer         string    `json:"answer" gorm:"type:text"`
	AnswerTime     time.Time `json:"answer_time"`
	Sequence       int       `json:"sequence" gorm:"index"`
}

// TableName overrides the generated name, which mangles the QA initialism
func (ExploreQAPair) TableName() string {
	return "explore_qa_pairs"
}
