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

// Package testutils provides utilities used in tests
package testutils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cornellnotes/cornell/pkg/clock"
	"github.com/cornellnotes/cornell/pkg/server/config"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/helpers"
	"github.com/cornellnotes/cornell/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestTokenSecret is the signing secret tests issue tokens with
const TestTokenSecret = "test-token-secret"

// InitMemoryDB opens a fresh in-memory database with the full schema.
// Each call gets its own database so tests do not share state.
func InitMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", helpers.GenUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}

	database.InitSchema(db)

	return db
}

// TestConfig returns a config suitable for tests
func TestConfig() config.Config {
	return config.Config{
		AppEnv:            "TEST",
		Port:              "3001",
		TokenSecret:       TestTokenSecret,
		TokenLifetimeMins: 30,
		InviteCode:        "",
	}
}

// SetupUserData creates a user with a known password for tests
func SetupUserData(t *testing.T, db *gorm.DB, username, password string) database.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(errors.Wrap(err, "hashing password"))
	}

	user := database.User{
		Model:        database.Model{ID: helpers.GenUUID()},
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(hashed),
		UserType:     database.UserTypeStudent,
		IsActive:     true,
	}
	MustExec(t, db.Create(&user), "creating user")

	return user
}

// SetupNotebookData creates a notebook for tests
func SetupNotebookData(t *testing.T, db *gorm.DB, ownerID, title string) database.Notebook {
	t.Helper()

	notebook := database.Notebook{
		Model:   database.Model{ID: helpers.GenUUID()},
		Title:   title,
		Color:   "#3A6EA5",
		OwnerID: ownerID,
	}
	MustExec(t, db.Create(&notebook), "creating notebook")

	return notebook
}

// SetupNoteData creates a note with content for tests
func SetupNoteData(t *testing.T, db *gorm.DB, ownerID, notebookID, title string) database.CornellNote {
	t.Helper()

	note := database.CornellNote{
		Model:       database.Model{ID: helpers.GenUUID()},
		Title:       title,
		AccessLevel: database.AccessPrivate,
		NotebookID:  notebookID,
		OwnerID:     ownerID,
	}
	MustExec(t, db.Create(&note), "creating note")

	content := database.NoteContent{
		Model:    database.Model{ID: helpers.GenUUID()},
		NoteID:   note.ID,
		Version:  1,
		IsSynced: true,
	}
	MustExec(t, db.Create(&content), "creating note content")

	note.Content = &content
	return note
}

// MustExec fails the test if the query has an error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	t.Helper()

	if err := db.Error; err != nil {
		t.Fatal(errors.Wrap(err, message))
	}
}

// MakeReq makes an HTTP request to the given endpoint
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing request"))
	}
	req.Header.Set("Content-Type", "application/json")

	return req
}

// HTTPDo makes an HTTP request and returns the response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing request"))
	}

	return res
}

// SetReqAuthHeader sets a valid bearer token for the user on the request
func SetReqAuthHeader(t *testing.T, req *http.Request, user database.User) {
	t.Helper()

	tok, _, err := token.Create(TestTokenSecret, &user, 30*time.Minute, time.Now())
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating token"))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tok))
}

// HTTPAuthDo makes an HTTP request as the given user
func HTTPAuthDo(t *testing.T, req *http.Request, user database.User) *http.Response {
	t.Helper()

	SetReqAuthHeader(t, req, user)

	return HTTPDo(t, req)
}

// ReadBody reads and returns the full response body
func ReadBody(t *testing.T, res *http.Response) string {
	t.Helper()

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading body"))
	}

	return string(body)
}

// MockClock returns a mock clock for tests
func MockClock() *clock.Mock {
	return clock.NewMock()
}
