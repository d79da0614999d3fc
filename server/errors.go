package server

import (
	"fmt"
	"net/http"
)

// PublicError is an error that is safe to show to the client. Code is the
// machine readable name sent in the "error" field, Text the human message.
type PublicError struct {
	Status int
	Code   string
	Text   string
}

func (pe PublicError) Error() string {
	return fmt.Sprintf("(%d) %s: %s", pe.Status, pe.Code, pe.Text)
}

func (pe PublicError) body() jMap {
	return jMap{
		"text":  pe.Text,
		"error": pe.Code,
	}
}

var (
	errBadRequest      = PublicError{http.StatusBadRequest, "bad_request", "Bad request!"}
	errRequestTooLarge = PublicError{http.StatusRequestEntityTooLarge, "request_too_large", "Request body is too large!"}
	errMissingToken    = PublicError{http.StatusBadRequest, "invalid_token", "Invalid token!"}
	errUnknownToken    = PublicError{http.StatusUnauthorized, "invalid_token", "Invalid token!"}
	errUnauthorized    = PublicError{http.StatusForbidden, "unauthorized_token", "Unauthorized token!"}
	errInvalidTitle    = PublicError{http.StatusBadRequest, "invalid_title", "Invalid title!"}
	errInvalidImage    = PublicError{http.StatusBadRequest, "invalid_image", "Invalid image file!"}
	errImageNotExist   = PublicError{http.StatusNotFound, "image_not_exist", "Image doesn't exist!"}
	errFileNotExist    = PublicError{http.StatusNotFound, "file_not_exist", "File doesn't exist!"}
	errMalformedCode   = PublicError{http.StatusBadRequest, "invalid_code", "Invalid owner code!"}
	errWrongCode       = PublicError{http.StatusUnauthorized, "invalid_code", "Invalid owner code!"}
	errMalformedUserId = PublicError{http.StatusBadRequest, "invalid_user_id", "Invalid user ID!"}
	errUnknownUserId   = PublicError{http.StatusNotFound, "invalid_user_id", "Invalid user ID!"}
	errInternal        = PublicError{http.StatusInternalServerError, "internal_error", "Internal server error!"}
	errPageNotFound    = PublicError{http.StatusNotFound, "not_found", "Page not found."}
)
