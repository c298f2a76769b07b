// Package artwork is the upload pipeline that turns a shopper's file into a
// durable asset: the placement engine works with local preview handles and
// artwork references; this resolves those references into stored files and
// publicly readable URLs at submission time.
package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkthread/inkthread/backend-go/internal/imagemeta"
	"github.com/inkthread/inkthread/backend-go/internal/placement"
	"github.com/inkthread/inkthread/backend-go/internal/typeid"
)

const maxUploadSize = placement.MaxArtworkBytes

// extensions maps accepted content types to stored file extensions. The
// accepted set matches what the placement engine will bind.
var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	AspectRatio float64 `json:"aspectRatio"`
	Name        string  `json:"name"`
}

// Handler serves artwork upload and retrieval endpoints.
type Handler struct {
	dir  string
	pool *pgxpool.Pool
}

// NewHandler creates an artwork handler that stores files in dir and
// records metadata in the database.
func NewHandler(dir string, pool *pgxpool.Pool) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create artwork dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, pool: pool}
}

// Upload handles POST /artwork/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := extensions[contentType]
	if !ok {
		http.Error(w, "only PNG, JPEG, WebP, or SVG files are accepted", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	width, height, err := imagemeta.Dimensions(data, contentType)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ext
	filePath := filepath.Join(h.dir, filename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		slog.Error("write artwork file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	if err := h.record(r.Context(), assetID, header.Filename, contentType, width, height); err != nil {
		slog.Error("record artwork asset", "error", err)
		os.Remove(filePath)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:          assetID,
		URL:         fmt.Sprintf("/artwork/%s", filename),
		Width:       width,
		Height:      height,
		AspectRatio: width / height,
		Name:        header.Filename,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored artwork files with
// caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/artwork/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes an artwork file and its metadata row.
func (h *Handler) Delete(ctx context.Context, assetID string) error {
	if _, err := h.pool.Exec(ctx, `DELETE FROM artwork_assets WHERE id = $1`, assetID); err != nil {
		return fmt.Errorf("delete artwork row: %w", err)
	}
	for _, ext := range extensions {
		path := filepath.Join(h.dir, assetID+ext)
		if err := os.Remove(path); err == nil {
			return nil
		}
	}
	return fmt.Errorf("artwork file not found: %s", assetID)
}

func (h *Handler) record(ctx context.Context, id, name, contentType string, width, height float64) error {
	_, err := h.pool.Exec(ctx,
		`INSERT INTO artwork_assets (id, file_name, content_type, width, height)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, name, contentType, int(width), int(height),
	)
	return err
}
