package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/liondadev/pixcode/config"
	"github.com/liondadev/pixcode/store"
	"github.com/liondadev/pixcode/types"
)

const testOwnerCode = "owner-secret"

var testDBSeq int64

type testEnv struct {
	srv   *Server
	store *store.Store
	cfg   *config.Config
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	db, err := store.Open(fmt.Sprintf("file:server_%d?mode=memory&cache=shared", seq))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db)
	if err := st.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.New()
	cfg.DatabasePath = "memory"
	cfg.OwnerCode = testOwnerCode
	cfg.BasePath = "https://i.example.dev"
	cfg.ImagePath = t.TempDir()
	cfg.MediaPath = t.TempDir()

	srv := New(cfg, st)
	if err := srv.SetupHTTP(); err != nil {
		t.Fatalf("setup http: %v", err)
	}

	return &testEnv{srv: srv, store: st, cfg: cfg}
}

func (e *testEnv) addUser(t *testing.T, id int64, name, token string, permission bool) {
	t.Helper()
	u := &types.User{Id: id, Name: name, Token: token, Permission: permission}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

// uploadRequest builds a multipart upload. An empty filename leaves the image
// field out, a nil title leaves the title field out.
func uploadRequest(t *testing.T, token string, title *string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if title != nil {
		if err := mw.WriteField("title", *title); err != nil {
			t.Fatalf("write title: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("token", token)
	}
	return req
}

func authorizeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/authorize", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if got := decode(t, w)["error"]; got != code {
		t.Fatalf("expected error %q, got %q", code, got)
	}
}

func ptr(s string) *string { return &s }
