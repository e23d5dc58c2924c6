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

	"github.com/cornellnotes/cornell/pkg/server/database"
)

// User is a result of PresentUser
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	AvatarURL string     `json:"avatar_url"`
	Bio       string     `json:"bio"`
	Phone     string     `json:"phone"`
	Location  string     `json:"location"`
	UserType  string     `json:"user_type"`
	Verified  bool       `json:"verified"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// PresentUser presents user
func PresentUser(user database.User) User {
	return User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		Phone:     user.Phone,
		Location:  user.Location,
		UserType:  user.UserType,
		Verified:  user.Verified,
		IsActive:  user.IsActive,
		LastLogin: formatTSPtr(user.LastLogin),
		CreatedAt: FormatTS(user.CreatedAt),
	}
}

// Session is a result of PresentSession
type Session struct {
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// PresentSession presents a signed-in session. expiresIn is the token
// lifetime in seconds.
func PresentSession(user database.User, token string, expiresAt time.Time, expiresIn int) Session {
	return Session{
		Token:     token,
		ExpiresIn: expiresIn,
		ExpiresAt: FormatTS(expiresAt),
		User:      PresentUser(user),
	}
}
