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
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can map it to a status
// code without string matching.
type Kind int

// Error kinds
const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServiceUnavailable
	KindUpstream
)

// Error is an application error with a user-facing message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError returns a new application error of the given kind
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf returns a new application error with a formatted message
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the given error. Errors that are not
// application errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

var (
	// ErrUsernameRequired is an error for registration with no username
	ErrUsernameRequired = NewError(KindValidation, "Username is required")
	// ErrEmailRequired is an error for registration with no email
	ErrEmailRequired = NewError(KindValidation, "Email is required")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = NewError(KindValidation, "Password must be at least 8 characters")
	// ErrInvalidUserType is an error for an unknown user type
	ErrInvalidUserType = NewError(KindValidation, "Unknown user type")
	// ErrInviteCodeMismatch is an error for registering with a wrong invite code
	ErrInviteCodeMismatch = NewError(KindForbidden, "Invalid invite code")
	// ErrDuplicateUsername is an error for a username that is already taken
	ErrDuplicateUsername = NewError(KindConflict, "Username is already taken")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = NewError(KindConflict, "Email is already registered")
	// ErrLoginInvalid is an error for invalid credentials
	ErrLoginInvalid = NewError(KindUnauthorized, "Incorrect username or password")
	// ErrUserInactive is an error for a login to a deactivated account
	ErrUserInactive = NewError(KindForbidden, "Account is deactivated")
	// ErrPasswordIncorrect is an error for a password change with a wrong current password
	ErrPasswordIncorrect = NewError(KindValidation, "Current password is incorrect")

	// ErrNotebookNotFound is an error for a notebook that is absent, deleted,
	// or owned by someone else. The three cases are deliberately
	// indistinguishable so existence does not leak.
	ErrNotebookNotFound = NewError(KindNotFound, "Notebook not found")
	// ErrInvalidColor is an error for a malformed notebook color
	ErrInvalidColor = NewError(KindValidation, "Color must be a 6-digit hex value such as #3A6EA5")

	// ErrNoteNotFound is an error for a note that is absent, deleted, or not
	// visible to the caller
	ErrNoteNotFound = NewError(KindNotFound, "Note not found")
	// ErrNoteAccessDenied is an error for reading a private note of another user
	ErrNoteAccessDenied = NewError(KindForbidden, "No permission to access this note")
	// ErrNoteEditDenied is an error for modifying a note of another user
	ErrNoteEditDenied = NewError(KindForbidden, "No permission to edit this note")
	// ErrInvalidAccessLevel is an error for an unknown note access level
	ErrInvalidAccessLevel = NewError(KindValidation, "Unknown access level")
	// ErrInvalidSortField is an error for sorting notes by an unknown field
	ErrInvalidSortField = NewError(KindValidation, "Unknown sort field")

	// ErrConversationNotFound is an error for a missing explore conversation
	ErrConversationNotFound = NewError(KindNotFound, "Conversation not found")
)
