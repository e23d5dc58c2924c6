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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cornellnotes/cornell/pkg/assert"
	"github.com/cornellnotes/cornell/pkg/server/context"
	"github.com/cornellnotes/cornell/pkg/server/testutils"
	"github.com/cornellnotes/cornell/pkg/server/token"
	"github.com/pkg/errors"
)

func TestGetCredential(t *testing.T) {
	testCases := []struct {
		authHeaderStr string
		expected      string
	}{
		{
			authHeaderStr: "",
			expected:      "",
		},
		{
			authHeaderStr: "Bearer foo",
			expected:      "foo",
		},
		{
			authHeaderStr: "bearer foo",
			expected:      "foo",
		},
		{
			authHeaderStr: "Basic foo",
			expected:      "",
		},
		{
			authHeaderStr: "InvalidFormat",
			expected:      "",
		},
	}

	for _, tc := range testCases {
		r, err := http.NewRequest("GET", "/", nil)
		if err != nil {
			t.Fatal(errors.Wrap(err, "constructing request"))
		}
		if tc.authHeaderStr != "" {
			r.Header.Set("Authorization", tc.authHeaderStr)
		}

		got := GetCredential(r)

		assert.Equal(t, got, tc.expected, "result mismatch")
	}
}

func TestAuth(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(t, db, "alice", "pass1234")

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctxUser := context.User(r.Context())
		if ctxUser == nil {
			t.Error("user not set on context")
		} else {
			assert.Equal(t, ctxUser.ID, user.ID, "context user mismatch")
		}

		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(Auth(db, testutils.TestTokenSecret, handler))
	defer server.Close()

	t.Run("valid token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPAuthDo(t, req, user)

		assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")
	})

	t.Run("no auth", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		res := testutils.HTTPDo(t, req)

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("invalid token", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer someInvalidToken")
		res := testutils.HTTPDo(t, req)

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("token signed with wrong secret", func(t *testing.T) {
		tok, _, err := token.Create("wrong-secret", &user, 30*time.Minute, time.Now())
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating token"))
		}

		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+tok)
		res := testutils.HTTPDo(t, req)

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
	})

	t.Run("expired token", func(t *testing.T) {
		tok, _, err := token.Create(testutils.TestTokenSecret, &user, 30*time.Minute, time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating token"))
		}

		req := testutils.MakeReq(server.URL, "GET", "/", "")
		req.Header.Set("Authorization", "Bearer "+tok)
		res := testutils.HTTPDo(t, req)

		assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestAuth_inactiveUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(t, db, "alice", "pass1234")
	testutils.MustExec(t, db.Model(&user).Update("is_active", false), "deactivating user")

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(Auth(db, testutils.TestTokenSecret, handler))
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/", "")
	res := testutils.HTTPAuthDo(t, req, user)

	assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
}

func TestAuth_deletedUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(t, db, "alice", "pass1234")
	testutils.MustExec(t, db.Delete(&user), "deleting user")

	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(Auth(db, testutils.TestTokenSecret, handler))
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/", "")
	res := testutils.HTTPAuthDo(t, req, user)

	assert.Equal(t, res.StatusCode, http.StatusUnauthorized, "status code mismatch")
}
