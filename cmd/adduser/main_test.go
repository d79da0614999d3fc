package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liondadev/pixcode/store"
)

func writeConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "test.db")
	configPath = filepath.Join(dir, "config.json")
	raw := fmt.Sprintf(`{"sqlite": %q, "owner_code": "secret"}`, dbPath)
	if err := os.WriteFile(configPath, []byte(raw), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, dbPath
}

func TestRun_CreatesUserWithGeneratedToken(t *testing.T) {
	configPath, dbPath := writeConfig(t)
	var out bytes.Buffer

	err := run(context.Background(), []string{"-config", configPath, "-id", "1234", "-name", "alice"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "token: ") {
		t.Errorf("expected token in output, got %q", out.String())
	}

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	u, err := store.New(db).UserByID(context.Background(), 1234)
	if err != nil || u == nil {
		t.Fatalf("expected user to exist, user=%v err=%v", u, err)
	}
	if u.Name != "alice" || len(u.Token) != 36 || u.Permission {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestRun_RejectsDuplicateAndBadInput(t *testing.T) {
	configPath, _ := writeConfig(t)
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, []string{"-config", configPath, "-id", "1", "-name", "bob", "-token", "t1"}, &out); err != nil {
		t.Fatalf("first run: %v", err)
	}

	bad := [][]string{
		{"-config", configPath, "-id", "1", "-name", "carol"},
		{"-config", configPath, "-name", "dave"},
		{"-config", configPath, "-id", "2", "-name", strings.Repeat("x", 33)},
		{"-config", configPath, "-id", "3", "-name", "erin", "-token", strings.Repeat("t", 65)},
	}
	for _, args := range bad {
		if err := run(ctx, args, &out); err == nil {
			t.Errorf("expected error for args %v", args)
		}
	}
}

func TestRun_NameLimitCountsCharacters(t *testing.T) {
	configPath, _ := writeConfig(t)
	ctx := context.Background()
	var out bytes.Buffer

	if err := run(ctx, []string{"-config", configPath, "-id", "1", "-name", strings.Repeat("é", 32)}, &out); err != nil {
		t.Fatalf("32 character name should be accepted: %v", err)
	}
	if err := run(ctx, []string{"-config", configPath, "-id", "2", "-name", strings.Repeat("é", 33)}, &out); err == nil {
		t.Error("expected error for 33 character name")
	}
}
