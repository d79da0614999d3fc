package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/liondadev/pixcode/config"
	"github.com/liondadev/pixcode/store"
)

// HandlerWithError is a wrapper around a http.Handler that allows you to return an error.
type HandlerWithError func(w http.ResponseWriter, r *http.Request) error

func (h HandlerWithError) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("Recovered from panic while handling request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err)
			writeJson(w, errInternal.Status, errInternal.body())
		}
	}()

	err := h(w, r)
	if err != nil {
		var perr PublicError
		if errors.As(err, &perr) {
			log.Printf("Encountered public error when serving request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err.Error())
			writeJson(w, perr.Status, perr.body())

			return
		}

		log.Printf("Encountered error when serving request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err.Error())
		writeJson(w, errInternal.Status, errInternal.body())
	}
}

type Server struct {
	store *store.Store
	cfg   *config.Config
	mux   *chi.Mux

	// genCode makes a random candidate code of length n.
	genCode func(n int) string
	// allocCode returns a code that was free when it was checked.
	allocCode func(ctx context.Context) (string, error)
}

// New creates a new server instance from the config and store.
func New(cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		genCode: generateCode,
	}
	s.allocCode = s.getFreeCode

	return s
}

func (s *Server) SetupHTTP() error {
	mux := chi.NewMux()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.CleanPath)
	mux.Use(middleware.Compress(5))
	mux.Use(middleware.RequestSize(s.cfg.MaxBodySize))

	// API Routes
	mux.With(s.preHandleAuthentication).With(s.preHandleRequireUploader).Handle("POST /api/upload", HandlerWithError(s.handleImageUpload))
	mux.Handle("POST /api/authorize", HandlerWithError(s.handleAuthorize))

	// Frontend Routes
	mux.Handle("GET /", FrontendHandlerWithError(s.handleIndexPage))
	mux.Handle("GET /upload", FrontendHandlerWithError(s.handleUploadPage))
	mux.Handle("GET /media/{file}", HandlerWithError(s.handleMedia))
	mux.Handle("GET /raw/{code}", HandlerWithError(s.handleRawImage))
	mux.Handle("GET /{code}", HandlerWithError(s.handleImagePage))

	// Not found handler
	mux.NotFound(FrontendHandlerWithError(s.handleNotFound).ServeHTTP)

	s.mux = mux

	return nil
}

// ServeHTTP lets the server be used directly as an http.Handler once SetupHTTP was called.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if s.mux == nil {
		return errors.New("the http mux hasn't been configured yet, call setuphttp()")
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// publicURL builds an absolute link to elem under the configured base path.
func (s *Server) publicURL(elem ...string) (string, error) {
	return url.JoinPath(s.cfg.BasePath, elem...)
}
