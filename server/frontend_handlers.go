package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/liondadev/pixcode/server/pages"
)

// FrontendHandlerWithError is almost identical to HandlerWithError, but it handles
// erroneous responses by responding with an error page, not json
type FrontendHandlerWithError func(w http.ResponseWriter, r *http.Request) error

func (h FrontendHandlerWithError) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("Recovered from panic while handling frontend request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err)
			writeHTML(w, http.StatusInternalServerError, pages.Error("500 - Internal Server Error", "Unrecoverable Server Panic"))
		}
	}()

	err := h(w, r)
	if err != nil {
		var perr PublicError
		if errors.As(err, &perr) {
			log.Printf("Encountered public error when serving frontend request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err.Error())
			writeHTML(w, perr.Status, pages.Error(strconv.Itoa(perr.Status)+" - "+http.StatusText(perr.Status), perr.Text))

			return
		}

		log.Printf("Encountered error when serving frontend request for (%s) %s: %s", r.RemoteAddr, r.RequestURI, err.Error())
		writeHTML(w, http.StatusInternalServerError, pages.Error("500 - Internal Server Error", "Internal Server Error"))
	}
}

// writeHTML renders html with the given status. The status is already sent
// when rendering starts, so a render failure can only be logged.
func writeHTML(w http.ResponseWriter, status int, html templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := html.Render(context.Background(), w); err != nil {
		log.Printf("Failed to render html page: %s", err.Error())
	}
}

// handleIndexPage handles requests to GET /
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) error {
	writeHTML(w, http.StatusOK, pages.Index())
	return nil
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) error {
	writeHTML(w, http.StatusOK, pages.Upload())
	return nil
}

// handleNotFound is called when no other handlers match the request. In other words, this is called
// when the page is not found or the route doesn't exist.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) error {
	return errPageNotFound
}
