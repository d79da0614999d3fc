package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/liondadev/pixcode/server/pages"
)

// handleImagePage shows the page for GET /{code}.
func (s *Server) handleImagePage(w http.ResponseWriter, r *http.Request) error {
	img, err := s.store.ImageWithAuthor(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		return err
	}
	if img == nil {
		return errImageNotExist
	}

	rawUrl, err := s.publicURL("raw", img.Code)
	if err != nil {
		return err
	}

	writeHTML(w, http.StatusOK, pages.Image(img.Code, img.AuthorName, img.Title, rawUrl))
	return nil
}

// handleRawImage streams the stored bytes for GET /raw/{code}.
func (s *Server) handleRawImage(w http.ResponseWriter, r *http.Request) error {
	img, err := s.store.ImageByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		return err
	}
	if img == nil {
		return errImageNotExist
	}

	// A record without its file is a server side problem, not a 404.
	return serveFile(w, r, s.cfg.ImagePath, img.Filename)
}

// handleMedia serves static assets for GET /media/{file}.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) error {
	err := serveFile(w, r, s.cfg.MediaPath, chi.URLParam(r, "file"))
	if errors.Is(err, os.ErrNotExist) {
		return errFileNotExist
	}

	return err
}
