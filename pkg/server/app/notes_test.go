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
	"testing"
	"time"

	"github.com/cornellnotes/cornell/pkg/assert"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/testutils"
)

func TestComputeWordCount(t *testing.T) {
	testCases := []struct {
		cue      string
		note     string
		summary  string
		expected int
	}{
		{cue: "", note: "", summary: "", expected: 0},
		{cue: "  ", note: "", summary: "  ", expected: 0},
		{cue: "abc", note: "de", summary: "f", expected: 6},
		{cue: "什么是细胞", note: "", summary: "", expected: 5},
		{cue: "  abc", note: "de", summary: "f  ", expected: 6},
	}

	for _, tc := range testCases {
		got := computeWordCount(tc.cue, tc.note, tc.summary)
		assert.Equal(t, got, tc.expected, "word count mismatch")
	}
}

func TestCreateNote(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")

	cue := "What is mitosis?"
	noteCol := "Cell division producing two identical daughter cells."
	note, err := a.CreateNote(user, CreateNoteParams{
		Title:      "Mitosis",
		NotebookID: notebook.ID,
		Content: NoteContentParams{
			CueColumn:  &cue,
			NoteColumn: &noteCol,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, note.Title, "Mitosis", "title mismatch")
	assert.Equal(t, note.AccessLevel, database.AccessPrivate, "default access level mismatch")
	assert.Equal(t, note.WordCount, computeWordCount(cue, noteCol, ""), "word count mismatch")

	var content database.NoteContent
	testutils.MustExec(t, a.DB.Where("note_id = ?", note.ID).First(&content), "finding content")
	assert.Equal(t, content.CueColumn, cue, "cue mismatch")
	assert.Equal(t, content.Version, 1, "version mismatch")
}

func TestCreateNote_DefaultNotebook(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")

	// no notebook at all
	_, err := a.CreateNote(user, CreateNoteParams{Title: "Orphan"})
	assert.Equal(t, err, ErrNotebookNotFound, "error mismatch")

	older := testutils.SetupNotebookData(t, a.DB, user.ID, "First")
	testutils.SetupNotebookData(t, a.DB, user.ID, "Second")
	testutils.MustExec(t, a.DB.Model(&older).Update("created_at", a.Clock.Now().AddDate(0, 0, -1)), "backdating notebook")

	note, err := a.CreateNote(user, CreateNoteParams{Title: "Mitosis"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, note.NotebookID, older.ID, "note must land in the oldest notebook")
}

func TestGetNote(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	other := testutils.SetupUserData(t, a.DB, "bob", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")

	got, err := a.GetNote(user, note.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Title, "Mitosis", "title mismatch")
	if got.Content == nil {
		t.Fatal("content was not preloaded")
	}

	// private note is invisible to others
	_, err = a.GetNote(other, note.ID)
	assert.Equal(t, err, ErrNoteAccessDenied, "error mismatch")

	// shared note is readable by others
	testutils.MustExec(t, a.DB.Model(&note).Update("access_level", database.AccessShared), "sharing note")
	_, err = a.GetNote(other, note.ID)
	assert.Equal(t, err, nil, "shared note must be readable")
}

func TestGetNote_ViewCount(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")

	var got database.CornellNote
	for i := 0; i < 3; i++ {
		var err error
		if got, err = a.GetNote(user, note.ID); err != nil {
			t.Fatal(err)
		}
	}
	assert.Equal(t, got.ViewCount, 3, "returned view count mismatch")

	var record database.CornellNote
	testutils.MustExec(t, a.DB.Where("id = ?", note.ID).First(&record), "finding note")
	assert.Equal(t, record.ViewCount, 3, "view count mismatch")
}

func TestGetNotes(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	other := testutils.SetupUserData(t, a.DB, "bob", "pass1234")
	b1 := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	b2 := testutils.SetupNotebookData(t, a.DB, user.ID, "History")

	n1 := testutils.SetupNoteData(t, a.DB, user.ID, b1.ID, "Mitosis")
	testutils.SetupNoteData(t, a.DB, user.ID, b2.ID, "French Revolution")
	otherBook := testutils.SetupNotebookData(t, a.DB, other.ID, "Chemistry")
	testutils.SetupNoteData(t, a.DB, other.ID, otherBook.ID, "Acids")

	result, err := a.GetNotes(user, GetNotesParams{})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Total, 2, "total mismatch")

	result, err = a.GetNotes(user, GetNotesParams{NotebookID: b1.ID})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Total, 1, "notebook filter mismatch")
	assert.Equal(t, result.Notes[0].ID, n1.ID, "note mismatch")

	starred := true
	testutils.MustExec(t, a.DB.Model(&n1).Update("is_starred", true), "starring note")
	result, err = a.GetNotes(user, GetNotesParams{IsStarred: &starred})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Total, 1, "starred filter mismatch")
}

func TestGetNotes_Search(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")
	testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Photosynthesis")

	result, err := a.GetNotes(user, GetNotesParams{Search: "itosi"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Total, 1, "title search mismatch")
	assert.Equal(t, result.Notes[0].ID, note.ID, "note mismatch")

	// search matches titles only, not column text
	testutils.MustExec(t, a.DB.Model(&database.NoteContent{}).
		Where("note_id = ?", note.ID).
		Update("summary_row", "division of the nucleus"), "setting summary")

	result, err = a.GetNotes(user, GetNotesParams{Search: "nucleus"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Total, 0, "column text must not match")
}

func TestGetNotes_Sort(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Banana")
	testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Apple")

	result, err := a.GetNotes(user, GetNotesParams{Sort: "title"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Notes[0].Title, "Apple", "ascending sort mismatch")

	result, err = a.GetNotes(user, GetNotesParams{Sort: "-title"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Notes[0].Title, "Banana", "descending sort mismatch")

	_, err = a.GetNotes(user, GetNotesParams{Sort: "password_hash"})
	assert.Equal(t, err, ErrInvalidSortField, "unknown sort field must be rejected")
}

func TestGetNotes_DefaultOrder(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	older := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Banana")
	newer := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Apple")

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testutils.MustExec(t, a.DB.Model(&older).Update("created_at", t1), "backdating note")
	testutils.MustExec(t, a.DB.Model(&newer).Update("created_at", t2), "backdating note")

	result, err := a.GetNotes(user, GetNotesParams{})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, result.Notes[0].Title, "Banana", "the earliest created note must come first")
	assert.Equal(t, result.Notes[1].Title, "Apple", "the latest created note must come last")
}

func TestUpdateNote(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")

	summary := "cells divide"
	if _, err := a.UpdateNote(user, note.ID, UpdateNoteParams{
		Content: &NoteContentParams{SummaryRow: &summary},
	}); err != nil {
		t.Fatal(err)
	}

	var content database.NoteContent
	testutils.MustExec(t, a.DB.Where("note_id = ?", note.ID).First(&content), "finding content")
	assert.Equal(t, content.SummaryRow, "cells divide", "summary mismatch")
	assert.Equal(t, content.Version, 2, "version must be bumped")

	var record database.CornellNote
	testutils.MustExec(t, a.DB.Where("id = ?", note.ID).First(&record), "finding note")
	assert.Equal(t, record.WordCount, computeWordCount("", "", summary), "word count mismatch")
	if record.LastEditedBy == nil {
		t.Fatal("last_edited_by was not set")
	}
	assert.Equal(t, *record.LastEditedBy, user.ID, "last_edited_by mismatch")
}

func TestUpdateNote_Permissions(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	other := testutils.SetupUserData(t, a.DB, "bob", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")

	// even a shared note is only editable by its owner
	testutils.MustExec(t, a.DB.Model(&note).Update("access_level", database.AccessShared), "sharing note")

	title := "Hijacked"
	_, err := a.UpdateNote(other, note.ID, UpdateNoteParams{Title: &title})
	assert.Equal(t, err, ErrNoteEditDenied, "error mismatch")
}

func TestUpdateNote_MoveNotebook(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	other := testutils.SetupUserData(t, a.DB, "bob", "pass1234")
	b1 := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	b2 := testutils.SetupNotebookData(t, a.DB, user.ID, "History")
	foreign := testutils.SetupNotebookData(t, a.DB, other.ID, "Chemistry")
	note := testutils.SetupNoteData(t, a.DB, user.ID, b1.ID, "Mitosis")

	if _, err := a.UpdateNote(user, note.ID, UpdateNoteParams{NotebookID: &b2.ID}); err != nil {
		t.Fatal(err)
	}

	var record database.CornellNote
	testutils.MustExec(t, a.DB.Where("id = ?", note.ID).First(&record), "finding note")
	assert.Equal(t, record.NotebookID, b2.ID, "notebook mismatch")

	_, err := a.UpdateNote(user, note.ID, UpdateNoteParams{NotebookID: &foreign.ID})
	assert.Equal(t, err, ErrNotebookNotFound, "moving into a foreign notebook must fail")
}

func TestCopyNote(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")
	testutils.MustExec(t, a.DB.Model(&database.NoteContent{}).
		Where("note_id = ?", note.ID).
		Update("cue_column", "What is mitosis?"), "setting cue")
	testutils.MustExec(t, a.DB.Model(&note).Update("is_starred", true), "starring note")

	copied, err := a.CopyNote(user, note.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, copied.Title, "Mitosis (copy)", "title mismatch")
	assert.Equal(t, copied.NotebookID, notebook.ID, "copy must default to the source notebook")
	assert.Equal(t, copied.IsStarred, false, "copy must not be starred")
	assert.Equal(t, copied.ViewCount, 0, "copy must start with zero views")
	assert.NotEqual(t, copied.ID, note.ID, "copy must be a new note")

	var content database.NoteContent
	testutils.MustExec(t, a.DB.Where("note_id = ?", copied.ID).First(&content), "finding copied content")
	assert.Equal(t, content.CueColumn, "What is mitosis?", "content mismatch")
	assert.Equal(t, content.Version, 1, "copy must start at version 1")
}

func TestCopyNote_SharedSource(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	other := testutils.SetupUserData(t, a.DB, "bob", "pass1234")
	src := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	dst := testutils.SetupNotebookData(t, a.DB, other.ID, "My Copies")
	note := testutils.SetupNoteData(t, a.DB, user.ID, src.ID, "Mitosis")

	// a private foreign note is not copyable
	_, err := a.CopyNote(other, note.ID, dst.ID)
	assert.Equal(t, err, ErrNoteAccessDenied, "error mismatch")

	testutils.MustExec(t, a.DB.Model(&note).Update("access_level", database.AccessPublic), "publishing note")

	copied, err := a.CopyNote(other, note.ID, dst.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, copied.OwnerID, other.ID, "copy must belong to the caller")
	assert.Equal(t, copied.NotebookID, dst.ID, "copy notebook mismatch")
	assert.Equal(t, copied.AccessLevel, database.AccessPublic, "copy must keep the source access level")

	// the target notebook must belong to the caller
	_, err = a.CopyNote(other, note.ID, src.ID)
	assert.Equal(t, err, ErrNotebookNotFound, "foreign target notebook must read as missing")
}

func TestDeleteNote(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	notebook := testutils.SetupNotebookData(t, a.DB, user.ID, "Biology")
	note := testutils.SetupNoteData(t, a.DB, user.ID, notebook.ID, "Mitosis")

	if err := a.DeleteNote(user, note.ID); err != nil {
		t.Fatal(err)
	}

	var record database.CornellNote
	testutils.MustExec(t, a.DB.Where("id = ?", note.ID).First(&record), "finding note")
	if record.DeletedAt == nil {
		t.Fatal("deleted_at was not set")
	}

	_, err := a.GetNote(user, note.ID)
	assert.Equal(t, err, ErrNoteNotFound, "deleted note must be hidden")
}
