package client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CredentialProvider supplies the bearer token for each request. An empty
// token sends no Authorization header.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSaver is implemented by providers that keep the token issued by Login.
type TokenSaver interface {
	SaveToken(token string) error
	ClearToken() error
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// FileToken keeps the token in a file readable only by the owner.
type FileToken struct {
	Path string
}

func (f FileToken) Token(context.Context) (string, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f FileToken) SaveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (f FileToken) ClearToken() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
