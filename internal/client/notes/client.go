package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotesNotFound distinguishes "no matches" (the API answers 404) from
// transport or server errors.
var ErrNotesNotFound = errors.New("no notes matched the given tags")

type Note struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type createNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) CreateNote(ctx context.Context, token, title, content string, tags []string) error {
	body, err := json.Marshal(createNoteRequest{Title: title, Content: content, Tags: tags})
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notes/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create note: unexpected status %d: %s", resp.StatusCode, data)
	}

	return nil
}

func (c *Client) SearchNotes(ctx context.Context, token, tags string) ([]Note, error) {
	endpoint := c.baseURL + "/notes/search/?tags=" + url.QueryEscape(tags)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotesNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search notes: unexpected status %d: %s", resp.StatusCode, data)
	}

	var found []Note
	if err = json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return found, nil
}
