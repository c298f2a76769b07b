package render

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler serves the preview compositing endpoint.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Preview handles POST /render/preview (multipart form). Expected fields:
// "mockup" and "artwork" image files, "config" with the design config JSON,
// and "side" naming which side to flatten.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	mockupData, err := formFileBytes(r, "mockup")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	artworkData, err := formFileBytes(r, "artwork")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := placement.ParseConfig([]byte(r.FormValue("config")))
	if err != nil {
		http.Error(w, "invalid config: "+err.Error(), http.StatusBadRequest)
		return
	}
	side := placement.ParseSide(r.FormValue("side"))
	rec := cfg.Record(side)
	if rec == nil {
		http.Error(w, "config has no placement for side "+side.String(), http.StatusBadRequest)
		return
	}

	out, err := ComposePNG(mockupData, artworkData, rec.Placement)
	if err != nil {
		slog.Error("compose preview", "error", err, "side", side)
		http.Error(w, "compose failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("preview rendered", "side", side, "bytes", len(out))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, &fieldError{field}
	}
	defer f.Close()
	return io.ReadAll(f)
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return "missing " + e.field + " file field"
}
