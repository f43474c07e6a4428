package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BeatGlow/panel"
)

// maxImageSize limits the size of a POST /draw body.
const maxImageSize = 16 << 20

// maxImagePixels limits the dimensions of a POST /draw image, checked before decoding.
const maxImagePixels = 1 << 24

// statusCode maps display errors to HTTP status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, panel.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, panel.ErrNotInitialized), errors.Is(err, panel.ErrAlreadyInitialized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status: "error",
		Error:  err.Error(),
	})
}

// ok responds with the current revision, the caller holds the lock.
func (s *Server) ok(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{
		Status:   "ok",
		Revision: s.revision.Value(),
	})
}

// GET /status
func (s *Server) statusHandler(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.display.Bounds().Size()
	return c.JSONPretty(http.StatusOK, Status{
		Status:      "ok",
		Version:     panel.Version,
		Display:     s.display.String(),
		Width:       size.X,
		Height:      size.Y,
		Rotation:    float64(s.display.Rotation()),
		Format:      s.display.Format().String(),
		Initialized: s.display.Initialized(),
		Revision:    s.revision.Value(),
		Uptime:      time.Since(s.started).Round(time.Second).String(),
	}, "  ")
}

// GET /frame.png
func (s *Server) frameHandler(c echo.Context) error {
	s.mu.Lock()
	img, err := s.display.Image()
	rev := s.revision.Value()
	s.mu.Unlock()
	if err != nil {
		return s.fail(c, statusCode(err), err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return err
	}
	c.Response().Header().Set("X-Panel-Revision", strconv.Itoa(rev))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// POST /draw?x=&y=
func (s *Server) drawHandler(c echo.Context) error {
	x, err := intParam(c, "x")
	if err != nil {
		return s.fail(c, http.StatusBadRequest, err)
	}
	y, err := intParam(c, "y")
	if err != nil {
		return s.fail(c, http.StatusBadRequest, err)
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxImageSize))
	if err != nil {
		return s.fail(c, http.StatusRequestEntityTooLarge, err)
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid image: %w", err))
	}
	if config.Width*config.Height > maxImagePixels {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid image: %dx%d exceeds %d pixels", config.Width, config.Height, maxImagePixels))
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid image: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.display.Draw(x, y, img); err != nil {
		return s.fail(c, statusCode(err), err)
	}
	s.changed()
	return s.ok(c)
}

// POST /initialize
func (s *Server) initializeHandler(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.display.Initialize(); err != nil {
		return s.fail(c, statusCode(err), err)
	}
	s.changed()
	return s.ok(c)
}

// POST /restart
func (s *Server) restartHandler(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.display.Restart(); err != nil {
		return s.fail(c, statusCode(err), err)
	}
	s.changed()
	return s.ok(c)
}

// POST /finalize
func (s *Server) finalizeHandler(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.display.Finalize(); err != nil {
		return s.fail(c, statusCode(err), err)
	}
	s.changed()
	return s.ok(c)
}

func intParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return i, nil
}
