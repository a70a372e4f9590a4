// Package api is the HTTP client for the Scolab backend: JSON over
// HTTPS with bearer-token auth attached by the outbound transport.
// Failures surface once as typed errors; nothing here retries.
package api

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

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL. tokens may be
// nil for an unauthenticated client (the push relay uses that).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &transport{
				tokens: tokens,
				base:   http.DefaultTransport,
			},
		},
	}
}

// do sends one request and decodes the response into out (when non
// nil). Error statuses are mapped to RemoteError with the envelope
// message when the body carries one.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		msg := string(raw)
		var env Envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

// doEnvelope sends a request expecting a ReqRes envelope and resolves
// its duck-typed status field.
func (c *Client) doEnvelope(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var env Envelope
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return &env, nil
}

// ---------- auth ----------

func (c *Client) Login(ctx context.Context, email, password string) (*Envelope, error) {
	return c.doEnvelope(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Envelope, error) {
	if req.Role == "" {
		req.Role = "ETUDIANT"
	}
	return c.doEnvelope(ctx, http.MethodPost, "/auth/register", req)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.doEnvelope(ctx, http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{Email: email})
	return err
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.doEnvelope(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	})
	return err
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	_, err := c.doEnvelope(ctx, http.MethodPost, "/auth/verify-email", verifyEmailRequest{Token: token})
	return err
}

// Profile fetches the authenticated student's profile. Some backend
// versions put it in the user field, older ones in data.
func (c *Client) Profile(ctx context.Context) (*models.Student, error) {
	env, err := c.doEnvelope(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	if env.User != nil {
		return env.User, nil
	}
	if len(env.Data) > 0 {
		var student models.Student
		if err := json.Unmarshal(env.Data, &student); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return &student, nil
	}
	return nil, nil
}

// ---------- domain collections ----------

func (c *Client) MyProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/etudiants/projets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projets/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/etudiants/taches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	path := "/api/etudiants/taches/" + url.PathEscape(taskID) + "/statut?statut=" + url.QueryEscape(status)
	var out models.Task
	if err := c.do(ctx, http.MethodPut, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyGroup(ctx context.Context) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodGet, "/api/groupes/mon-groupe", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
