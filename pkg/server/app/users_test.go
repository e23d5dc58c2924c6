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
	"github.com/cornellnotes/cornell/pkg/clock"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/testutils"
	"github.com/cornellnotes/cornell/pkg/server/token"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	return &App{
		DB:     testutils.InitMemoryDB(t),
		Clock:  clock.NewMock(),
		Config: testutils.TestConfig(),
	}
}

func TestRegister(t *testing.T) {
	a := newTestApp(t)

	user, err := a.Register(RegisterParams{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, user.Username, "alice", "username mismatch")
	assert.Equal(t, user.Email, "alice@example.com", "email mismatch")
	assert.Equal(t, user.UserType, database.UserTypeStudent, "user_type mismatch")
	assert.Equal(t, user.IsActive, true, "is_active mismatch")
	assert.NotEqual(t, user.PasswordHash, "pass1234", "password must not be stored in plain text")

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234"))
	assert.Equal(t, err, nil, "password hash mismatch")

	var notebookCount int64
	testutils.MustExec(t, a.DB.Model(&database.Notebook{}).Where("owner_id = ?", user.ID).Count(&notebookCount), "counting notebooks")
	assert.Equal(t, notebookCount, int64(1), "default notebook was not created")

	var notebook database.Notebook
	testutils.MustExec(t, a.DB.Where("owner_id = ?", user.ID).First(&notebook), "finding notebook")
	assert.Equal(t, notebook.Title, "default", "notebook title mismatch")
	assert.Equal(t, notebook.Icon, DefaultNotebookIcon, "notebook icon mismatch")
}

func TestRegister_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		params RegisterParams
		err    error
	}{
		{
			name:   "missing username",
			params: RegisterParams{Email: "a@example.com", Password: "pass1234"},
			err:    ErrUsernameRequired,
		},
		{
			name:   "missing email",
			params: RegisterParams{Username: "alice", Password: "pass1234"},
			err:    ErrEmailRequired,
		},
		{
			name:   "short password",
			params: RegisterParams{Username: "alice", Email: "a@example.com", Password: "pass"},
			err:    ErrPasswordTooShort,
		},
		{
			name:   "unknown user type",
			params: RegisterParams{Username: "alice", Email: "a@example.com", Password: "pass1234", UserType: "wizard"},
			err:    ErrInvalidUserType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestApp(t)

			_, err := a.Register(tc.params)
			assert.Equal(t, err, tc.err, "error mismatch")
		})
	}
}

func TestRegister_InviteCode(t *testing.T) {
	a := newTestApp(t)
	a.Config.InviteCode = "sesame"

	_, err := a.Register(RegisterParams{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "pass1234",
		InviteCode: "wrong",
	})
	assert.Equal(t, err, ErrInviteCodeMismatch, "error mismatch")

	_, err = a.Register(RegisterParams{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "pass1234",
		InviteCode: "sesame",
	})
	assert.Equal(t, err, nil, "register with correct invite code failed")
}

func TestRegister_Duplicate(t *testing.T) {
	a := newTestApp(t)
	testutils.SetupUserData(t, a.DB, "alice", "pass1234")

	_, err := a.Register(RegisterParams{
		Username: "alice",
		Email:    "other@example.com",
		Password: "pass1234",
	})
	assert.Equal(t, err, ErrDuplicateUsername, "error mismatch")

	_, err = a.Register(RegisterParams{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "pass1234",
	})
	assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")

	// neither failed attempt may leave partial rows behind
	var userCount int64
	testutils.MustExec(t, a.DB.Model(&database.User{}).Count(&userCount), "counting users")
	assert.Equal(t, userCount, int64(1), "user count mismatch")
}

func TestAuthenticate(t *testing.T) {
	a := newTestApp(t)
	testutils.SetupUserData(t, a.DB, "alice", "pass1234")

	user, err := a.Authenticate("alice", "pass1234")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, user.Username, "alice", "username mismatch")

	_, err = a.Authenticate("alice", "wrongpass")
	assert.Equal(t, err, ErrLoginInvalid, "error mismatch for wrong password")

	_, err = a.Authenticate("nobody", "pass1234")
	assert.Equal(t, err, ErrLoginInvalid, "error mismatch for unknown user")
}

func TestAuthenticate_Inactive(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	testutils.MustExec(t, a.DB.Model(&user).Update("is_active", false), "deactivating user")

	_, err := a.Authenticate("alice", "pass1234")
	assert.Equal(t, err, ErrUserInactive, "error mismatch")
}

func TestSignIn(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")

	tok, expiresAt, err := a.SignIn(&user)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := token.Verify(a.Config.TokenSecret, tok)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, claims.UserID, user.ID, "token subject mismatch")
	assert.Equal(t, claims.Username, "alice", "token username mismatch")

	now := a.Clock.Now()
	assert.Equal(t, expiresAt, now.Add(30*time.Minute), "expiry mismatch")

	var record database.User
	testutils.MustExec(t, a.DB.Where("id = ?", user.ID).First(&record), "finding user")
	if record.LastLogin == nil {
		t.Fatal("last_login was not recorded")
	}
	assert.Equal(t, record.LastLogin.Equal(now), true, "last_login mismatch")
}

func TestChangePassword(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "oldpass12")

	err := a.ChangePassword(user, "wrongpass", "newpass12")
	assert.Equal(t, err, ErrPasswordIncorrect, "error mismatch for wrong current password")

	err = a.ChangePassword(user, "oldpass12", "short")
	assert.Equal(t, err, ErrPasswordTooShort, "error mismatch for short new password")

	if err := a.ChangePassword(user, "oldpass12", "newpass12"); err != nil {
		t.Fatal(err)
	}

	var record database.User
	testutils.MustExec(t, a.DB.Where("id = ?", user.ID).First(&record), "finding user")
	err = bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte("newpass12"))
	assert.Equal(t, err, nil, "new password does not verify")
}

func TestUpdateProfile(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")

	fullName := "Alice Liddell"
	bio := "Student of rabbit holes"
	if err := a.UpdateProfile(&user, UpdateProfileParams{
		FullName: &fullName,
		Bio:      &bio,
	}); err != nil {
		t.Fatal(err)
	}

	var record database.User
	testutils.MustExec(t, a.DB.Where("id = ?", user.ID).First(&record), "finding user")
	assert.Equal(t, record.FullName, "Alice Liddell", "full_name mismatch")
	assert.Equal(t, record.Bio, "Student of rabbit holes", "bio mismatch")
	assert.Equal(t, record.Email, "alice@example.com", "email must be untouched")
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	user := testutils.SetupUserData(t, a.DB, "alice", "pass1234")
	testutils.SetupUserData(t, a.DB, "bob", "pass1234")

	email := "bob@example.com"
	err := a.UpdateProfile(&user, UpdateProfileParams{Email: &email})
	assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")
}
