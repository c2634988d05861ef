package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gallery/internal/netx"
	"github.com/dmitrijs2005/gallery/internal/server/models"
)

// Client talks to one gallery server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateResponse is the server's answer to a create request.
type CreateResponse struct {
	Entry      models.Entry          `json:"entry"`
	SignedURLs *models.UploadTargets `json:"signedUrls,omitempty"`
}

// PublishResponse is the server's answer to a publish request.
type PublishResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	Count   int    `json:"count"`
}

type entryEnvelope struct {
	Entry models.Entry `json:"entry"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func entryPath(id string) string {
	return "/entries/" + url.PathEscape(id)
}

func (c *Client) List(ctx context.Context) ([]models.Entry, error) {
	var out struct {
		Entries []models.Entry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/entries", nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Entry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodGet, entryPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

// Create registers a new entry and returns the upload targets for it.
// dateCreated is RFC 3339 or YYYY-MM-DD; empty lets the server stamp it.
func (c *Client) Create(ctx context.Context, name, mimeType, dateCreated string) (*CreateResponse, error) {
	in := map[string]string{"name": name, "mimeType": mimeType}
	if dateCreated != "" {
		in["dateCreated"] = dateCreated
	}
	var out CreateResponse
	if err := c.do(ctx, http.MethodPut, "/entries", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update changes the name and/or order of an entry. Nil fields are left
// alone.
func (c *Client) Update(ctx context.Context, id string, name *string, order *int) (*models.Entry, error) {
	in := struct {
		Name  *string `json:"name,omitempty"`
		Order *int    `json:"order,omitempty"`
	}{name, order}
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, entryPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) Move(ctx context.Context, id, direction string) (*models.Entry, error) {
	in := map[string]string{"direction": direction}
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, entryPath(id)+"/move", in, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (c *Client) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	var out models.DeleteResult
	if err := c.do(ctx, http.MethodDelete, entryPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Publish(ctx context.Context) (*PublishResponse, error) {
	var out PublishResponse
	if err := c.do(ctx, http.MethodPost, "/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload PUTs body to a presigned URL returned by Create.
func (c *Client) Upload(ctx context.Context, signedURL, contentType string, body []byte) error {
	// presigned URLs carry their own authorization
	return netx.UploadToPresignedURL(ctx, &http.Client{Timeout: c.http.Timeout}, signedURL, contentType, body)
}
