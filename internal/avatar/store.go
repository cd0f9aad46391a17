package avatar

import (
	"context"
	"errors"
)

// Store define la interfaz del almacenamiento externo de avatares.
// Upload devuelve el identificador estable del objeto y su URL pública.
type Store interface {
	Upload(ctx context.Context, data []byte) (publicID string, url string, err error)
	Delete(ctx context.Context, publicID string) error
}

type disabledStore struct {
	reason string
}

func NewDisabledStore(reason string) Store {
	return &disabledStore{reason: reason}
}

func (s *disabledStore) Upload(_ context.Context, _ []byte) (string, string, error) {
	if s.reason == "" {
		return "", "", errors.New("avatar store disabled")
	}
	return "", "", errors.New(s.reason)
}

func (s *disabledStore) Delete(_ context.Context, _ string) error {
	if s.reason == "" {
		return errors.New("avatar store disabled")
	}
	return errors.New(s.reason)
}
