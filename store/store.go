// Package store keeps users and images in sqlite through sqlx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/liondadev/pixcode/types"

	_ "github.com/glebarez/go-sqlite"
)

var (
	// ErrDuplicate is returned when an insert hits a primary key or unique column
	// that is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrNotFound is returned by updates that matched no record. Lookups return
	// a nil record instead.
	ErrNotFound = errors.New("record not found")
)

type Store struct {
	db *sqlx.DB
}

// New wraps an already opened database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open opens the sqlite database at dsn with foreign keys enforced. Writers
// wait up to five seconds for a locked database instead of failing at once.
func Open(dsn string) (*sqlx.DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	db, err := sqlx.Open("sqlite", dsn+sep+"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return db, nil
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

// ApplyMigrations creates all the SQL tables needed for the service to work.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	// 001 - users and images
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" INTEGER PRIMARY KEY,
			"name" VARCHAR(32) NOT NULL UNIQUE,
			"token" VARCHAR(64) NOT NULL UNIQUE,
			"permission" BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS "images" (
			"code" VARCHAR(6) PRIMARY KEY,
			"author_id" INTEGER NOT NULL REFERENCES "users" ("id"),
			"title" VARCHAR(100),
			"filename" VARCHAR(12) NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create initial schema: %w", err)
		}
	}

	return nil
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*types.User, error) {
	var u types.User
	q := `SELECT "id", "name", "token", "permission" FROM "users" WHERE ` + where + ` LIMIT 1`
	if err := s.db.GetContext(ctx, &u, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// UserByID returns the user with the given id, or nil if there is none.
func (s *Store) UserByID(ctx context.Context, id int64) (*types.User, error) {
	return s.getUser(ctx, `"id" = $1`, id)
}

// UserByToken returns the user owning the api token, or nil if there is none.
func (s *Store) UserByToken(ctx context.Context, token string) (*types.User, error) {
	return s.getUser(ctx, `"token" = $1`, token)
}

// UserByName returns the user with the given display name, or nil if there is none.
func (s *Store) UserByName(ctx context.Context, name string) (*types.User, error) {
	return s.getUser(ctx, `"name" = $1`, name)
}

// CreateUser inserts u. Reusing an id, name or token fails with ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO "users" ("id", "name", "token", "permission") VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
		u.Id, u.Name, u.Token, u.Permission)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("insert user %d: %w", u.Id, ErrDuplicate)
	}

	return nil
}

// GrantPermission lets the user upload images. Granting twice is not an error.
func (s *Store) GrantPermission(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE "users" SET "permission" = 1 WHERE "id" = $1`, id)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("grant permission to %d: %w", id, ErrNotFound)
	}

	return nil
}

// ImageByCode returns the image stored under code, or nil if there is none.
func (s *Store) ImageByCode(ctx context.Context, code string) (*types.Image, error) {
	var img types.Image
	q := `SELECT "code", "author_id", COALESCE("title", '') AS "title", "filename" FROM "images" WHERE "code" = $1 LIMIT 1`
	if err := s.db.GetContext(ctx, &img, q, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get image: %w", err)
	}

	return &img, nil
}

// ImageWithAuthor is ImageByCode with the author's name resolved.
func (s *Store) ImageWithAuthor(ctx context.Context, code string) (*types.ImageWithAuthor, error) {
	var img types.ImageWithAuthor
	q := `SELECT i."code", i."author_id", COALESCE(i."title", '') AS "title", i."filename", u."name" AS "author_name"
		FROM "images" i JOIN "users" u ON u."id" = i."author_id"
		WHERE i."code" = $1 LIMIT 1`
	if err := s.db.GetContext(ctx, &img, q, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get image with author: %w", err)
	}

	return &img, nil
}

// ImageExists reports whether code is already used by an image.
func (s *Store) ImageExists(ctx context.Context, code string) (bool, error) {
	var found int
	if err := s.db.GetContext(ctx, &found, `SELECT 1 FROM "images" WHERE "code" = $1 LIMIT 1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("check image code: %w", err)
	}

	return true, nil
}

// CreateImage inserts img and then calls persist (which writes the file) before
// committing. If the code is taken nothing is persisted and ErrDuplicate is
// returned. If persist fails the row is rolled back.
func (s *Store) CreateImage(ctx context.Context, img *types.Image, persist func() error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin image insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO "images" ("code", "author_id", "title", "filename") VALUES ($1, $2, $3, $4) ON CONFLICT ("code") DO NOTHING`,
		img.Code, img.AuthorId, img.Title, img.Filename)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("insert image %s: %w", img.Code, ErrDuplicate)
	}

	if persist != nil {
		if err := persist(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit image insert: %w", err)
	}

	return nil
}
