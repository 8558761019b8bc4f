// Package rest implements the service.Service interface over the task
// service's JSON HTTP API.
package rest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/task"
)

//go:embed task.schema.json
var taskSchemaJSON []byte

const taskSchemaURL = "task.schema.json"

// Client implements service.Service against a REST endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	schema  *jsonschema.Schema
}

// New creates a client from cfg. When an API token is configured every
// request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient := http.DefaultClient
	if cfg.API.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.API.Token,
			TokenType:   "Bearer",
		})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	c, err := NewWithHTTPClient(httpClient, cfg.API.URL)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.API.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client that sends requests through httpClient.
// New uses it after building the token transport. No per-request timeout is
// applied; New sets one from config.
func NewWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api url is empty")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(taskSchemaURL, bytes.NewReader(taskSchemaJSON)); err != nil {
		return nil, fmt.Errorf("load task schema: %w", err)
	}
	schema, err := compiler.Compile(taskSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task schema: %w", err)
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		schema:  schema,
	}, nil
}

// ListTasks fetches every task.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, wrapError(err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	result := make([]task.Task, 0, len(raw))
	for i, item := range raw {
		t, err := c.decodeTask(item)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		result = append(result, t)
	}
	return result, nil
}

// CreateTask posts a new task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := c.do(ctx, http.MethodPost, c.baseURL, nt)
	if err != nil {
		return task.Task{}, wrapError(err)
	}
	return c.decodeTask(body)
}

// UpdateTask replaces the task at /{id} with the full record.
func (c *Client) UpdateTask(ctx context.Context, t task.Task) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.do(ctx, http.MethodPut, c.taskURL(t.ID), t)
	return wrapError(err)
}

// DeleteTask deletes the task at /{id}.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.do(ctx, http.MethodDelete, c.taskURL(id), nil)
	return wrapError(err)
}

func (c *Client) taskURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// do sends a request with an optional JSON payload and returns the response
// body. Non-2xx responses are returned as *googleapi.Error.
func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, err
	}
	return io.ReadAll(res.Body)
}

// decodeTask validates data against the task schema before decoding it.
func (c *Client) decodeTask(data []byte) (task.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return task.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return task.Task{}, fmt.Errorf("invalid task: %s", schemaMessage(err))
	}

	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return task.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	return t, nil
}

// schemaMessage returns the first leaf message of a validation error.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}

// wrapError maps transport errors to short messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("unauthorized (check api.token)")
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusBadRequest:
			return fmt.Errorf("rejected: %s", serverMessage(apiErr.Body))
		default:
			return fmt.Errorf("server error: HTTP %d", apiErr.Code)
		}
	}

	return err
}

// serverMessage extracts {"error": "..."} from a response body.
func serverMessage(body string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "bad request"
	}
	return body
}
