// Package client talks to a running preview server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"

	"golang.org/x/mod/semver"
	"resty.dev/v3"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/internal/server"
)

// Client of the preview server.
type Client struct {
	c *resty.Client
}

// New returns a client for the preview server at baseURL.
func New(baseURL string) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetHeader("Accept", "application/json")
	c.SetHeader("User-Agent", "panel/"+panel.Version)
	return &Client{c: c}
}

// Close releases the resources of the client.
func (c *Client) Close() error {
	return c.c.Close()
}

// Status returns the status of the server.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	var status server.Status
	res, err := c.c.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/status")
	if err != nil {
		return nil, err
	}
	if err = check(res); err != nil {
		return nil, err
	}
	return &status, nil
}

// Push draws img at (x, y).
func (c *Client) Push(ctx context.Context, x, y int, img image.Image) (revision int, err error) {
	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return
	}

	var result server.Response
	res, err := c.c.R().
		SetContext(ctx).
		SetQueryParam("x", strconv.Itoa(x)).
		SetQueryParam("y", strconv.Itoa(y)).
		SetHeader("Content-Type", "image/png").
		SetBody(buf.Bytes()).
		SetResult(&result).
		Post("/draw")
	if err != nil {
		return
	}
	if err = check(res); err != nil {
		return
	}
	return result.Revision, nil
}

// Frame returns the rotated frame of the display.
func (c *Client) Frame(ctx context.Context) (image.Image, error) {
	res, err := c.c.R().
		SetContext(ctx).
		SetHeader("Accept", "image/png").
		Get("/frame.png")
	if err != nil {
		return nil, err
	}
	if err = check(res); err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(res.Bytes()))
}

// Initialize the display.
func (c *Client) Initialize(ctx context.Context) error {
	return c.post(ctx, "/initialize")
}

// Restart the display.
func (c *Client) Restart(ctx context.Context) error {
	return c.post(ctx, "/restart")
}

// Finalize the display.
func (c *Client) Finalize(ctx context.Context) error {
	return c.post(ctx, "/finalize")
}

func (c *Client) post(ctx context.Context, path string) error {
	res, err := c.c.R().
		SetContext(ctx).
		Post(path)
	if err != nil {
		return err
	}
	return check(res)
}

// Error is a failed request.
type Error struct {
	StatusCode int
	Message    string
}

func (err *Error) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("panel server: %d %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("panel server: %d %s: %s", err.StatusCode, http.StatusText(err.StatusCode), err.Message)
}

func check(res *resty.Response) error {
	if !res.IsError() {
		return nil
	}
	err := &Error{StatusCode: res.StatusCode()}
	var body server.Response
	if json.Unmarshal(res.Bytes(), &body) == nil {
		err.Message = body.Error
	}
	return err
}

// Compatible reports whether a server of the given version speaks the same API as this
// client: the major versions match, and before v1 the minor versions as well.
func Compatible(version string) bool {
	if !semver.IsValid(version) {
		return false
	}
	return semver.Major(version) == semver.Major(panel.Version) &&
		(semver.Major(version) != "v0" || semver.MajorMinor(version) == semver.MajorMinor(panel.Version))
}
