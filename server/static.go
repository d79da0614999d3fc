package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// secureFilename reduces name to a plain file name that can't leave the
// directory it is joined to. It returns "" if nothing usable is left.
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('_')
		}
	}

	// Only the last element is left, so stripping leading dots also rules out
	// "." and "..".
	return strings.TrimLeft(b.String(), "._")
}

// serveFile streams dir/name to the client. The returned error wraps
// os.ErrNotExist when there is no such file.
func serveFile(w http.ResponseWriter, r *http.Request, dir string, name string) error {
	clean := secureFilename(name)
	if clean == "" {
		return os.ErrNotExist
	}

	f, err := os.Open(filepath.Join(dir, clean))
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	if stat.IsDir() {
		return os.ErrNotExist
	}

	setCacheControlHeaders(w)
	http.ServeContent(w, r, clean, stat.ModTime(), f)

	return nil
}

func setCacheControlHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, max-age=1800") // 30 min cache time
}
