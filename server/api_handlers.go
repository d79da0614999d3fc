package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/liondadev/pixcode/store"
	"github.com/liondadev/pixcode/types"
)

const (
	DefaultTitle    = "Image"
	maxTitleLength  = 100
	maxOwnerCodeLen = 64
	maxUserIdLength = 16
	multipartMemory = 1024 * 1024 * 8
	maxCodeAttempts = 4
)

// AllowedExtensions are the (lower case) file extensions accepted for uploads.
var AllowedExtensions = []string{"jpg", "png", "jpeg", "webp"}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// handleImageUpload is called when someone tries to upload an image. The
// authentication middlewares already made sure the uploader is allowed to.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) error {
	user := authenticatedUser(r)
	if user == nil {
		panic("user in middleware but not in context key?")
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			return errRequestTooLarge
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return errBadRequest
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	title := r.PostFormValue("title")
	if title == "" {
		title = DefaultTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return errInvalidTitle
	}

	uploadedFile, header, err := r.FormFile("image")
	if err != nil {
		return errInvalidImage
	}
	defer uploadedFile.Close()

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(header.Filename), "."))
	if !slices.Contains(AllowedExtensions, ext) {
		return errInvalidImage
	}

	img, err := s.storeImage(r.Context(), user, title, ext, uploadedFile)
	if err != nil {
		return err
	}

	log.Printf("User '%s' uploaded image '%s' as %s", user.Name, header.Filename, img.Filename)

	pageUrl, err := s.publicURL(img.Code)
	if err != nil {
		return err
	}

	rawUrl, err := s.publicURL("raw", img.Code)
	if err != nil {
		return err
	}

	writeJson(w, http.StatusOK, jMap{
		"text": "Uploaded image!",
		"code": img.Code,
		"url":  pageUrl,
		"raw":  rawUrl,
	})
	return nil
}

// storeImage reserves a free code for the upload and writes the file under it.
// A code taken between the free check and the insert is retried with a new one.
func (s *Server) storeImage(ctx context.Context, user *types.User, title, ext string, file io.Reader) (*types.Image, error) {
	for attempt := 1; ; attempt++ {
		code, err := s.allocCode(ctx)
		if err != nil {
			return nil, err
		}

		img := &types.Image{
			Code:     code,
			AuthorId: user.Id,
			Title:    title,
			Filename: code + "." + ext,
		}
		fullPath := filepath.Join(s.cfg.ImagePath, img.Filename)

		created := false
		err = s.store.CreateImage(ctx, img, func() error {
			var werr error
			created, werr = writeImageFile(fullPath, file)
			return werr
		})
		if err == nil {
			return img, nil
		}

		if errors.Is(err, store.ErrDuplicate) && attempt < maxCodeAttempts {
			log.Printf("Image code %s was taken before it could be inserted, retrying", code)
			continue
		}

		// The row is rolled back, so the file must not stay behind.
		if created {
			_ = os.Remove(fullPath)
		}

		return nil, err
	}
}

// writeImageFile copies src to a new file at fullPath. created reports whether
// the file was made, even when writing to it failed afterwards.
func writeImageFile(fullPath string, src io.Reader) (created bool, err error) {
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return false, fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return true, fmt.Errorf("write image file: %w", err)
	}

	return true, f.Close()
}

// stringField reads a json value that is either a string or a number as a string.
func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// parseUserId accepts decimal ids, and json numbers in any notation as long
// as they hold a whole value (1e5 is user 100000).
func parseUserId(v any, raw string) (int64, bool) {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}

	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

// handleAuthorize lets the owner give a user permission to upload.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) error {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		if isTooLarge(err) {
			return errRequestTooLarge
		}

		return errBadRequest
	}
	if len(body) == 0 {
		return errBadRequest
	}

	code, _ := body["code"].(string)
	if code == "" || len(code) > maxOwnerCodeLen {
		return errMalformedCode
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.cfg.OwnerCode)) != 1 {
		return errWrongCode
	}

	rawId := stringField(body["id"])
	if rawId == "" || len(rawId) > maxUserIdLength {
		return errMalformedUserId
	}

	id, ok := parseUserId(body["id"], rawId)
	if !ok {
		return errUnknownUserId
	}

	if err := s.store.GrantPermission(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errUnknownUserId
		}

		return err
	}

	log.Printf("Authorized user %d to upload images", id)

	writeJson(w, http.StatusOK, jMap{"text": "Authorized user to upload images."})
	return nil
}
