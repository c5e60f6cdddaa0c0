// Package storage implementa los backends de almacenamiento de documentos
// generados (vales en PDF): disco local y Cloudinary.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore guarda documentos en un directorio del disco y devuelve la ruta
// relativa servible como URL.
type LocalStore struct {
	dir string
}

// NewLocalStore crea el directorio si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Store escribe el documento con un nombre único. Si el nombre ya existe se
// añade un sufijo numérico antes de la extensión: vale.pdf, vale_1.pdf, ...
func (s *LocalStore) Store(_ context.Context, name string, data []byte) (string, error) {
	name = sanitizeName(name)
	path, err := s.uniquePath(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", path, err)
	}
	return "/documents/" + filepath.Base(path), nil
}

func (s *LocalStore) uniquePath(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(s.dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("storage: comprobar %s: %w", candidate, err)
		}
		candidate = filepath.Join(s.dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

// sanitizeName elimina separadores de ruta y espacios del nombre recibido.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, name)
}
