package http

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"holo-museum-guide/internal/snapshot"
)

const defaultSnapshotLimit = 16 << 20

// SnapshotRecorder keeps a log of produced captures.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, sessionID, fileName string, size int) error
}

type SnapshotHandler struct {
	recorder  SnapshotRecorder
	limit     int64
	maxPixels int
	now       func() time.Time
	logger    *zap.Logger
}

// NewSnapshotHandler builds the upload endpoint. recorder may be nil. limit
// caps the upload in bytes, maxPixels the declared size of each image.
func NewSnapshotHandler(recorder SnapshotRecorder, limit int64, maxPixels int, logger *zap.Logger) *SnapshotHandler {
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	if maxPixels <= 0 {
		maxPixels = snapshot.DefaultMaxPixels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotHandler{recorder: recorder, limit: limit, maxPixels: maxPixels, now: time.Now, logger: logger}
}

// ServeHTTP composites the uploaded camera frame ("feed") with the rendered
// overlay ("overlay") and returns the PNG as a download.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limit)
	if err := r.ParseMultipartForm(h.limit); err != nil {
		http.Error(w, "invalid multipart upload", http.StatusBadRequest)
		return
	}

	feed, err := decodePart(r.MultipartForm, "feed", h.maxPixels)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	overlay, err := decodePart(r.MultipartForm, "overlay", h.maxPixels)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snapshot.Compose(feed, overlay)); err != nil {
		h.logger.Error("encode snapshot", zap.Error(err))
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}

	fileName := sanitizeFileName(r.FormValue("fileName"), h.now())
	sessionID := r.FormValue("sessionId")
	if h.recorder != nil {
		if err := h.recorder.RecordSnapshot(r.Context(), sessionID, fileName, buf.Len()); err != nil {
			h.logger.Warn("snapshot not recorded", zap.String("file", fileName), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("snapshot write failed", zap.Error(err))
	}
}

func decodePart(form *multipart.Form, field string, maxPixels int) (image.Image, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, fmt.Errorf("missing %s image", field)
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	img, err := snapshot.Decode(f, maxPixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return img, nil
}

// sanitizeFileName keeps the page's requested name when it is a plain PNG
// name, and falls back to the timestamped default otherwise.
func sanitizeFileName(requested string, now time.Time) string {
	name := filepath.Base(requested)
	if requested == "" || name != requested || !strings.HasSuffix(name, ".png") || strings.ContainsAny(name, "\"\\") {
		return snapshot.FileName(now)
	}
	return name
}
