package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/models"
)

// Client performs the REST operations the screens need against the remote
// task API. It attaches the stored bearer token on every request once bound
// via WithToken. No operation retries; every call is fire-once.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client bound to the given bearer token.
// The zero token leaves requests unauthenticated.
func (c *Client) WithToken(token string) *Client {
	cc := *c
	cc.token = token
	return &cc
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out, "Login failed"); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Register creates an account. The role field is passed through verbatim;
// whether to honor it is the server's decision.
func (c *Client) Register(ctx context.Context, email, password, role string) error {
	body := map[string]string{"email": email, "password": password, "role": role}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, nil, "Registration failed")
}

// ListOwnTasks returns the caller's tasks.
func (c *Client) ListOwnTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/", nil, &tasks, "Failed to load tasks"); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAllTasks returns every task in the system. The server enforces the
// admin requirement and answers 403 otherwise.
func (c *Client) ListAllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/all", nil, &tasks, "Failed to fetch all tasks"); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task; the server assigns id, owner and completion.
func (c *Client) CreateTask(ctx context.Context, title, description string) (models.Task, error) {
	body := map[string]string{"title": title, "description": description}
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks/", body, &task, "Failed to create task"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// SetTaskCompletion flips the completion flag of a task.
func (c *Client) SetTaskCompletion(ctx context.Context, id int, completed bool) (models.Task, error) {
	body := map[string]bool{"is_completed": completed}
	var task models.Task
	path := fmt.Sprintf("/api/v1/tasks/%d", id)
	if err := c.do(ctx, http.MethodPut, path, body, &task, "Failed to update task"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/v1/tasks/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, "Failed to delete task")
}

// do performs a single request/response round trip. Non-2xx responses are
// mapped onto the package error taxonomy; the server's detail field wins
// over the per-operation fallback when present.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Detail: fallback, Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Detail: fallback, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Detail: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp)
		if detail == "" {
			detail = fallback
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return &AuthError{Detail: detail}
		case http.StatusForbidden:
			return &ForbiddenError{Detail: detail}
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return &ValidationError{Detail: detail}
		default:
			return &APIError{Status: resp.StatusCode, Detail: detail}
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Detail: fallback, Err: fmt.Errorf("parsing response: %w", err)}
		}
	}
	return nil
}

// decodeDetail pulls the human-readable detail field out of an error
// response body, if the server sent one.
func decodeDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
