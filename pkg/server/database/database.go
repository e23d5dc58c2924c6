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
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Notebook{},
		&CornellNote{},
		&NoteContent{},
		&ExploreConversation{},
		&ExploreQAPair{},
	); err != nil {
		panic(err)
	}
}

// Open initializes the database connection. A postgres:// URL connects to
// PostgreSQL; anything else is treated as a SQLite file path.
func Open(databaseURL string) *gorm.DB {
	var dialector gorm.Dialector

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dir := filepath.Dir(databaseURL)
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(errors.Wrapf(err, "creating database directory at %s", dir))
		}

		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}

// ActiveNotebooks scopes a query to notebooks that are not soft-deleted.
// Every notebook read must go through this scope.
func ActiveNotebooks(db *gorm.DB) *gorm.DB {
	return db.Where("notebooks.deleted_at IS NULL")
}

// ActiveNotes scopes a query to notes that are not soft-deleted.
// Every note read must go through this scope.
func ActiveNotes(db *gorm.DB) *gorm.DB {
	return db.Where("cornell_notes.deleted_at IS NULL")
}
