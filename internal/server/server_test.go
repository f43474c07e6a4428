package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/pixel"
)

func testServer(t *testing.T, config *panel.Config) (*Server, *panel.ImageDisplay) {
	t.Helper()
	d, err := panel.NewImageDisplay(config)
	if err != nil {
		t.Fatal(err)
	}
	return New(d, nil), d
}

func testPNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func testDo(t *testing.T, s *Server, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "image/png")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func testRed(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0xff, A: 0xff}), image.Point{}, draw.Src)
	return img
}

func TestStatus(t *testing.T) {
	s, _ := testServer(t, &panel.Config{Width: 10, Height: 20, Rotation: panel.Clockwise})
	rec := testDo(t, s, http.MethodGet, "/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Width != 10 || status.Height != 20 || status.Rotation != -90 {
		t.Errorf("unexpected status %+v", status)
	}
	if status.Initialized {
		t.Error("expected the display to be uninitialized")
	}
	if status.Version != panel.Version {
		t.Errorf("expected version %s, got %s", panel.Version, status.Version)
	}
}

func TestFrame(t *testing.T) {
	s, _ := testServer(t, &panel.Config{Width: 10, Height: 10})
	if rec := testDo(t, s, http.MethodGet, "/frame.png", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an uninitialized display, got %d", rec.Code)
	}

	if rec := testDo(t, s, http.MethodPost, "/draw?x=5&y=5", testPNG(t, testRed(5, 5))); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if v := s.Revision(); v != 1 {
		t.Errorf("expected revision 1, got %d", v)
	}

	rec := testDo(t, s, http.MethodGet, "/frame.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v := rec.Header().Get("Content-Type"); v != "image/png" {
		t.Errorf("expected image/png, got %q", v)
	}
	if v := rec.Header().Get("X-Panel-Revision"); v != "1" {
		t.Errorf("expected revision header 1, got %q", v)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}

	want := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(want, want.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	pixel.Paste(want, testRed(5, 5), 5, 5)
	if !pixel.Equal(img, want) {
		t.Error("expected the red image in the bottom right corner")
	}
}

func TestDrawErrors(t *testing.T) {
	s, d := testServer(t, &panel.Config{Width: 4, Height: 4})
	tests := []struct {
		Name   string
		Target string
		Body   *bytes.Buffer
	}{
		{"invalid x", "/draw?x=left", testPNG(t, testRed(1, 1))},
		{"invalid y", "/draw?y=1.5", testPNG(t, testRed(1, 1))},
		{"invalid image", "/draw", bytes.NewBufferString("not an image")},
		{"empty body", "/draw", new(bytes.Buffer)},
		// GIF header declaring a 65535x65535 screen, rejected before decoding.
		{"too large", "/draw", bytes.NewBuffer([]byte("GIF89a\xff\xff\xff\xff\x00\x00\x00"))},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			rec := testDo(t, s, http.MethodPost, test.Target, test.Body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			var res Response
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if res.Status != "error" || res.Error == "" {
				t.Errorf("expected an error response, got %+v", res)
			}
		})
	}
	if d.Initialized() {
		t.Error("expected failed draws to leave the display uninitialized")
	}
}

func TestLifecycle(t *testing.T) {
	s, d := testServer(t, &panel.Config{Width: 4, Height: 4})

	if rec := testDo(t, s, http.MethodPost, "/initialize", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := testDo(t, s, http.MethodPost, "/initialize", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second initialize, got %d", rec.Code)
	}
	if rec := testDo(t, s, http.MethodPost, "/draw", testPNG(t, testRed(4, 4))); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if rec := testDo(t, s, http.MethodPost, "/restart", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	img, err := d.Image()
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range []image.Point{{0, 0}, {3, 3}} {
		if r, _, _, _ := img.At(pt.X, pt.Y).RGBA(); r != 0 {
			t.Errorf("expected restart to clear the frame, got %v at %s", img.At(pt.X, pt.Y), pt)
		}
	}

	if rec := testDo(t, s, http.MethodPost, "/finalize", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if d.Initialized() {
		t.Error("expected the display to be finalized")
	}
	if v := s.Revision(); v != 4 {
		t.Errorf("expected revision 4, got %d", v)
	}
}

func TestServe(t *testing.T) {
	s, _ := testServer(t, &panel.Config{Width: 2, Height: 2})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	res, err := http.Get("http://" + l.Addr().String() + "/status")
	if err != nil {
		t.Fatal(err)
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}

	cancel()
	select {
	case err = <-done:
		if err != nil {
			t.Errorf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for the server to shut down")
	}
}
