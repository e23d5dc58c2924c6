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
	"strings"
	"time"

	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/helpers"
	"github.com/cornellnotes/cornell/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// RegisterParams is the payload for creating an account
type RegisterParams struct {
	Username   string
	Email      string
	Password   string
	InviteCode string
	FullName   string
	UserType   string
}

// Register creates a new user along with a default notebook. The two rows
// are created in one transaction so every account has a notebook.
func (a *App) Register(p RegisterParams) (database.User, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.TrimSpace(p.Email)

	if a.Config.InviteCode != "" && p.InviteCode != a.Config.InviteCode {
		return database.User{}, ErrInviteCodeMismatch
	}
	if username == "" {
		return database.User{}, ErrUsernameRequired
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(p.Password) < minPasswordLength {
		return database.User{}, ErrPasswordTooShort
	}

	userType := p.UserType
	if userType == "" {
		userType = database.UserTypeStudent
	}
	if !database.ValidUserType(userType) {
		return database.User{}, ErrInvalidUserType
	}

	var user database.User

	tx := a.DB.Begin()

	var usernameCount int64
	if err := tx.Model(&database.User{}).Where("username = ?", username).Count(&usernameCount).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "counting username")
	}
	if usernameCount > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateUsername
	}

	var emailCount int64
	if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&emailCount).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "counting email")
	}
	if emailCount > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "hashing password")
	}

	now := a.Clock.Now()
	user = database.User{
		Model:        database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     p.FullName,
		UserType:     userType,
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "creating user")
	}

	notebook := database.Notebook{
		Model:       database.Model{ID: helpers.GenUUID(), CreatedAt: now, UpdatedAt: now},
		Title:       defaultNotebookTitle,
		Description: "Default notebook",
		Color:       defaultNotebookColor,
		Icon:        DefaultNotebookIcon,
		OwnerID:     user.ID,
	}
	if err := tx.Create(&notebook).Error; err != nil {
		tx.Rollback()
		return database.User{}, errors.Wrap(err, "creating default notebook")
	}

	if err := tx.Commit().Error; err != nil {
		return database.User{}, errors.Wrap(err, "committing")
	}

	return user, nil
}

// Authenticate checks the given credentials and returns the matching user.
// A wrong username and a wrong password produce the same error.
func (a *App) Authenticate(username, password string) (database.User, error) {
	var user database.User
	conn := a.DB.Where("username = ?", strings.TrimSpace(username)).First(&user)
	if conn.Error != nil {
		return database.User{}, ErrLoginInvalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return database.User{}, ErrLoginInvalid
	}

	if !user.IsActive {
		return database.User{}, ErrUserInactive
	}

	return user, nil
}

// SignIn issues an access token for the user and records the login time
func (a *App) SignIn(user *database.User) (string, time.Time, error) {
	now := a.Clock.Now()
	lifetime := time.Duration(a.Config.TokenLifetimeMins) * time.Minute

	tok, expiresAt, err := token.Create(a.Config.TokenSecret, user, lifetime, now)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "creating token")
	}

	if err := a.DB.Model(user).Update("last_login", now).Error; err != nil {
		return "", time.Time{}, errors.Wrap(err, "updating last_login")
	}

	return tok, expiresAt, nil
}

// ChangePassword replaces the user's password after verifying the current one
func (a *App) ChangePassword(user database.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrPasswordIncorrect
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}

	if err := a.DB.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		return errors.Wrap(err, "updating password")
	}

	return nil
}

// UpdateProfileParams holds the profile fields to change. Nil fields are
// left untouched.
type UpdateProfileParams struct {
	FullName  *string
	Email     *string
	AvatarURL *string
	Bio       *string
	Phone     *string
	Location  *string
}

// UpdateProfile applies a partial profile update
func (a *App) UpdateProfile(user *database.User, p UpdateProfileParams) error {
	values := map[string]interface{}{}

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			return ErrEmailRequired
		}

		if email != user.Email {
			var count int64
			if err := a.DB.Model(&database.User{}).
				Where("email = ? AND id <> ?", email, user.ID).
				Count(&count).Error; err != nil {
				return errors.Wrap(err, "counting email")
			}
			if count > 0 {
				return ErrDuplicateEmail
			}
		}

		values["email"] = email
	}
	if p.FullName != nil {
		values["full_name"] = *p.FullName
	}
	if p.AvatarURL != nil {
		values["avatar_url"] = *p.AvatarURL
	}
	if p.Bio != nil {
		values["bio"] = *p.Bio
	}
	if p.Phone != nil {
		values["phone"] = *p.Phone
	}
	if p.Location != nil {
		values["location"] = *p.Location
	}

	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = a.Clock.Now()

	if err := a.DB.Model(user).Updates(values).Error; err != nil {
		return errors.Wrap(err, "updating user")
	}

	// map-based Updates does not refresh the struct
	if err := a.DB.Where("id = ?", user.ID).First(user).Error; err != nil {
		return errors.Wrap(err, "reloading user")
	}

	return nil
}
