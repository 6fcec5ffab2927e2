// Package client calls the todo host over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todo/api"
	"todo/todo"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for the host at addr ("host:port" or a full URL).
func New(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	return &Client{
		BaseURL: strings.TrimRight(addr, "/"),
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) Create(ctx context.Context, text string) (uint64, error) {
	var resp api.CreateResponse
	err := c.do(ctx, http.MethodPost, "/todos", api.CreateRequest{Text: text}, http.StatusCreated, &resp)
	return resp.ID, err
}

// Complete returns the host's message, or todo.ErrNotFound.
func (c *Client) Complete(ctx context.Context, id uint64) (string, error) {
	var resp api.MessageResponse
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/todos/%d/complete", id), nil, http.StatusOK, &resp)
	return resp.Message, err
}

func (c *Client) Get(ctx context.Context, id uint64) (string, error) {
	var resp api.TodoResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todos/%d", id), nil, http.StatusOK, &resp)
	return resp.Text, err
}

func (c *Client) IsCompleted(ctx context.Context, id uint64) (bool, error) {
	var resp api.StatusResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todos/%d/completed", id), nil, http.StatusOK, &resp)
	return resp.Completed, err
}

func (c *Client) Count(ctx context.Context) (uint64, error) {
	var resp api.CountResponse
	err := c.do(ctx, http.MethodGet, "/todos/count", nil, http.StatusOK, &resp)
	return resp.Count, err
}

// Delete returns the host's message, or todo.ErrNotFound.
func (c *Client) Delete(ctx context.Context, id uint64) (string, error) {
	var resp api.MessageResponse
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, http.StatusOK, &resp)
	return resp.Message, err
}

func (c *Client) Events(ctx context.Context) ([]todo.Event, error) {
	var events []todo.Event
	err := c.do(ctx, http.MethodGet, "/events", nil, http.StatusOK, &events)
	return events, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	d := json.NewDecoder(resp.Body)
	if resp.StatusCode != want {
		e := api.ErrResponse{}
		if err := d.Decode(&e); err != nil {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}

		// a 404 from a wrong route or base URL is not a missing todo
		if resp.StatusCode == http.StatusNotFound && e.Message == todo.MsgNotFound {
			return todo.ErrNotFound
		}
		return fmt.Errorf("%s %s: response error (%d): %s", method, path, e.HTTPStatusCode, e.Message)
	}

	if err := d.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
