// Command adduser registers a user directly in the database. There is no
// public sign up, so this is how accounts come to exist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/liondadev/pixcode/config"
	"github.com/liondadev/pixcode/store"
	"github.com/liondadev/pixcode/types"
)

const (
	maxNameLength  = 32
	maxTokenLength = 64
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("adduser: %s", err.Error())
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	configPath := fs.String("config", "config.json", "path to the json config file")
	id := fs.Int64("id", 0, "user id (required)")
	name := fs.String("name", "", "display name (required, at most 32 characters)")
	token := fs.String("token", "", "api token, generated when empty")
	permission := fs.Bool("permission", false, "allow the user to upload right away")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == 0 {
		return errors.New("-id is required")
	}
	if *name == "" || utf8.RuneCountInString(*name) > maxNameLength {
		return fmt.Errorf("-name must be between 1 and %d characters", maxNameLength)
	}
	if *token == "" {
		*token = uuid.NewString()
	}
	if len(*token) > maxTokenLength {
		return fmt.Errorf("-token can't be longer than %d characters", maxTokenLength)
	}

	cfg, err := config.FromFile(*configPath)
	if err != nil {
		return err
	}
	if cfg.DatabasePath == "" {
		return errors.New("config didn't provide a 'sqlite' option as a path to an sqlite file")
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db)
	if err := st.ApplyMigrations(ctx); err != nil {
		return err
	}

	u := &types.User{Id: *id, Name: *name, Token: *token, Permission: *permission}
	if err := st.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("a user with that id, name or token already exists")
		}

		return err
	}

	fmt.Fprintf(out, "Created user %d (%s)\ntoken: %s\n", u.Id, u.Name, u.Token)
	return nil
}
