package http

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSnapshotUploadComposites(t *testing.T) {
	rec := &recordingRecorder{}
	handler := NewSnapshotHandler(rec, 0, 0, nil)
	handler.now = func() time.Time { return time.UnixMilli(1700000000000) }

	body, contentType := snapshotForm(t, map[string]string{"sessionId": "s-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="holo-museum-1700000000000.png"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("expected overlay-sized 4x2 output, got %v", b)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "s-1/holo-museum-1700000000000.png" {
		t.Fatalf("unexpected records %+v", rec.calls)
	}
}

func TestSnapshotUploadKeepsRequestedName(t *testing.T) {
	handler := NewSnapshotHandler(nil, 0, 0, nil)
	body, contentType := snapshotForm(t, map[string]string{"fileName": "holo-museum-42.png"})
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="holo-museum-42.png"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestSnapshotUploadRequiresBothImages(t *testing.T) {
	handler := NewSnapshotHandler(nil, 0, 0, nil)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	writePNG(t, mw, "feed", 2, 2)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSnapshotUploadRejectsOversizedFrames(t *testing.T) {
	rec := &recordingRecorder{}
	// the 8x4 feed is over the cap, the 4x2 overlay is not
	handler := NewSnapshotHandler(rec, 0, 16, nil)
	body, contentType := snapshotForm(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/snapshots", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "frame too large") {
		t.Fatalf("expected size rejection, got %q", w.Body.String())
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", rec.calls)
	}
}

func TestSanitizeFileName(t *testing.T) {
	now := time.UnixMilli(5)
	cases := map[string]string{
		"":                  "holo-museum-5.png",
		"../../etc/passwd":  "holo-museum-5.png",
		"photo.jpg":         "holo-museum-5.png",
		"holo-museum-7.png": "holo-museum-7.png",
		`evil".png`:         "holo-museum-5.png",
	}
	for in, want := range cases {
		if got := sanitizeFileName(in, now); got != want {
			t.Fatalf("sanitize %q: want %q, got %q", in, want, got)
		}
	}
}

type recordingRecorder struct {
	calls []string
}

func (r *recordingRecorder) RecordSnapshot(_ context.Context, sessionID, fileName string, size int) error {
	if size == 0 {
		return nil
	}
	r.calls = append(r.calls, sessionID+"/"+fileName)
	return nil
}

func snapshotForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	writePNG(t, mw, "feed", 8, 4)
	writePNG(t, mw, "overlay", 4, 2)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func writePNG(t *testing.T, mw *multipart.Writer, field string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	part, err := mw.CreateFormFile(field, field+".png")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}
