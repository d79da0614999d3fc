package server

import (
	"context"
	"math/rand"
)

// CodeLength is the length of an image code.
const CodeLength = 6

var chars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateCode(n int) string {
	id := make([]byte, n)
	for idx := 0; idx < len(id); idx++ {
		id[idx] = chars[rand.Intn(len(chars))]
	}
	return string(id)
}

// getFreeCode generates image codes until it finds one that isn't in use yet.
func (s *Server) getFreeCode(ctx context.Context) (string, error) {
	for {
		code := s.genCode(CodeLength)

		taken, err := s.store.ImageExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}
