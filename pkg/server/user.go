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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cornellnotes/cornell/pkg/prompt"
	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/config"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, question string, optimistic bool) (bool, error) {
	message := prompt.FormatQuestion(question, optimistic)
	fmt.Print(message + " ")

	return prompt.ReadYesNo(r, optimistic)
}

func setupFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf("Usage:\n  %s [flags]\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}

	return fs
}

func requireString(fs *flag.FlagSet, value, name string) {
	if value == "" {
		fmt.Printf("Error: --%s is required\n\n", name)
		fs.Usage()
		os.Exit(1)
	}
}

func setupAppWithDB(databaseURL string) (app.App, func()) {
	cfg, err := config.New(config.Params{DatabaseURL: databaseURL})
	if errors.Is(err, config.ErrTokenSecretMissing) {
		// admin commands never mint tokens
		cfg, err = config.New(config.Params{DatabaseURL: databaseURL, TokenSecret: "unused"})
	}
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	a := initApp(cfg)
	cleanup := func() {
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return a, cleanup
}

func findUserByUsername(db *gorm.DB, username string) (database.User, bool) {
	var user database.User
	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false
	} else if err != nil {
		log.ErrorWrap(err, "finding user")
		os.Exit(1)
	}

	return user, true
}

func userCreateCmd(args []string) {
	fs := setupFlagSet("create", "cornell-server user create")

	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "User password (required)")
	databaseURL := fs.String("databaseUrl", "", "Database connection string (env: DATABASE_URL, default: cornell.db)")

	fs.Parse(args)

	requireString(fs, *username, "username")
	requireString(fs, *email, "email")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(*databaseURL)
	defer cleanup()

	// admin-created accounts bypass the invite code
	a.Config.InviteCode = ""

	if _, err := a.Register(app.RegisterParams{
		Username: *username,
		Email:    *email,
		Password: *password,
	}); err != nil {
		log.ErrorWrap(err, "creating user")
		os.Exit(1)
	}

	fmt.Printf("User created successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userDeactivateCmd(args []string, stdin io.Reader) {
	fs := setupFlagSet("deactivate", "cornell-server user deactivate")

	username := fs.String("username", "", "Username (required)")
	databaseURL := fs.String("databaseUrl", "", "Database connection string (env: DATABASE_URL, default: cornell.db)")

	fs.Parse(args)

	requireString(fs, *username, "username")

	a, cleanup := setupAppWithDB(*databaseURL)
	defer cleanup()

	user, found := findUserByUsername(a.DB, *username)
	if !found {
		fmt.Printf("Error: user %s not found\n", *username)
		os.Exit(1)
	}

	ok, err := confirm(stdin, fmt.Sprintf("Deactivate user %s?", *username), false)
	if err != nil {
		log.ErrorWrap(err, "getting confirmation")
		os.Exit(1)
	}
	if !ok {
		fmt.Println("Aborted by user")
		os.Exit(0)
	}

	if err := a.DB.Model(&user).Update("is_active", false).Error; err != nil {
		log.ErrorWrap(err, "deactivating user")
		os.Exit(1)
	}

	fmt.Printf("User deactivated successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userResetPasswordCmd(args []string) {
	fs := setupFlagSet("reset-password", "cornell-server user reset-password")

	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password (required)")
	databaseURL := fs.String("databaseUrl", "", "Database connection string (env: DATABASE_URL, default: cornell.db)")

	fs.Parse(args)

	requireString(fs, *username, "username")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(*databaseURL)
	defer cleanup()

	user, found := findUserByUsername(a.DB, *username)
	if !found {
		fmt.Printf("Error: user %s not found\n", *username)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.ErrorWrap(err, "hashing password")
		os.Exit(1)
	}

	if err := a.DB.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		log.ErrorWrap(err, "updating password")
		os.Exit(1)
	}

	fmt.Printf("Password reset successfully\n")
	fmt.Printf("Username: %s\n", *username)
}

func userCmd(args []string) {
	if len(args) < 1 {
		fmt.Println(`Usage:
  cornell-server user [command]

Available commands:
  create: Create a new user
  deactivate: Deactivate a user account
  reset-password: Reset a user's password`)
		return
	}

	switch args[0] {
	case "create":
		userCreateCmd(args[1:])
	case "deactivate":
		userDeactivateCmd(args[1:], os.Stdin)
	case "reset-password":
		userResetPasswordCmd(args[1:])
	default:
		fmt.Printf("Unknown command %s\n", args[0])
		os.Exit(1)
	}
}
