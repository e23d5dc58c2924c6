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

package controllers

import (
	"net/http"

	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/middleware"
	"github.com/cornellnotes/cornell/pkg/server/presenters"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{app: app}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationPayload is the payload for registering
type RegistrationPayload struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
	FullName   string `json:"full_name"`
	UserType   string `json:"user_type"`
}

// Register handles POST /auth/register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegistrationPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	user, err := u.app.Register(app.RegisterParams{
		Username:   payload.Username,
		Email:      payload.Email,
		Password:   payload.Password,
		InviteCode: payload.InviteCode,
		FullName:   payload.FullName,
		UserType:   payload.UserType,
	})
	if err != nil {
		middleware.RespondAppError(w, "registering user", err)
		return
	}

	token, expiresAt, err := u.app.SignIn(&user)
	if err != nil {
		middleware.DoError(w, "signing in", err, http.StatusInternalServerError)
		return
	}

	middleware.RespondJSON(w, http.StatusCreated, presenters.PresentSession(user, token, expiresAt, u.app.Config.TokenLifetimeMins*60))
}

// LoginPayload is the payload for logging in
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	user, err := u.app.Authenticate(payload.Username, payload.Password)
	if err != nil {
		middleware.RespondAppError(w, "authenticating user", err)
		return
	}

	token, expiresAt, err := u.app.SignIn(&user)
	if err != nil {
		middleware.DoError(w, "signing in", err, http.StatusInternalServerError)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentSession(user, token, expiresAt, u.app.Config.TokenLifetimeMins*60))
}

// Me handles GET /auth/me
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentUser(user))
}

// ChangePasswordPayload is the payload for changing password
type ChangePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles PUT /auth/change-password
func (u *Users) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var payload ChangePasswordPayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	if err := u.app.ChangePassword(user, payload.OldPassword, payload.NewPassword); err != nil {
		middleware.RespondAppError(w, "changing password", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// UpdateProfilePayload is the payload for updating the profile
type UpdateProfilePayload struct {
	FullName  *string `json:"full_name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
}

// UpdateProfile handles PUT /auth/update-profile
func (u *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var payload UpdateProfilePayload
	if err := parseJSON(r, &payload); err != nil {
		respondBadRequest(w, "invalid payload")
		return
	}

	if err := u.app.UpdateProfile(&user, app.UpdateProfileParams{
		FullName:  payload.FullName,
		Email:     payload.Email,
		AvatarURL: payload.AvatarURL,
		Bio:       payload.Bio,
		Phone:     payload.Phone,
		Location:  payload.Location,
	}); err != nil {
		middleware.RespondAppError(w, "updating profile", err)
		return
	}

	middleware.RespondJSON(w, http.StatusOK, presenters.PresentUser(user))
}
