package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// CloudinaryStore sube documentos a Cloudinary mediante un upload preset sin
// firmar y devuelve la URL pública resultante.
type CloudinaryStore struct {
	httpClient *resty.Client
	preset     string
}

// NewCloudinaryStore construye el cliente para la cuenta indicada.
func NewCloudinaryStore(cloudName, preset string) *CloudinaryStore {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", cloudName)).
		SetTimeout(30 * time.Second)

	return &CloudinaryStore{
		httpClient: restyClient,
		preset:     preset,
	}
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Store sube el documento como recurso "raw" y devuelve su URL segura.
func (s *CloudinaryStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	result := new(cloudinaryUploadResponse)
	apiErr := new(cloudinaryError)

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"upload_preset": s.preset,
		}).
		SetResult(result).
		SetError(apiErr).
		Post("/raw/upload")
	if err != nil {
		return "", fmt.Errorf("storage: subir a cloudinary: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("storage: cloudinary respondió %d: %s",
			resp.StatusCode(), apiErr.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: cloudinary no devolvió URL para %s", name)
	}
	return result.SecureURL, nil
}
