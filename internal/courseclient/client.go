// Package courseclient talks to the remote course-authoring service over HTTP.
package courseclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nfrund/coursewizard/internal/domain"
)

// maxErrorBody caps how much of a failed response is read for the error message.
const maxErrorBody = 4 << 10

// Client implements domain.CourseService. It holds no state beyond its HTTP clients.
type Client struct {
	baseURL string
	// http serves the CRUD calls and carries the configured timeout.
	http *http.Client
	// generate has no timeout; generation can run for minutes.
	generate *http.Client
	log      *slog.Logger
}

// Ensure Client implements domain.CourseService.
var _ domain.CourseService = (*Client)(nil)

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		generate: &http.Client{},
		log:      logger.With("component", "courseclient"),
	}
}

// --- wire types ---

type modulesResponse struct {
	Modules  []domain.Module `json:"modules"`
	Module   *domain.Module  `json:"module"`
	CourseID string          `json:"course_id"`
}

type submodulesResponse struct {
	Submodules  []domain.Submodule `json:"submodules"`
	Suggestions []json.RawMessage  `json:"suggestions"`
}

type generateResponse struct {
	VersionID string `json:"version_id"`
	ModuleID  string `json:"module_id"`
}

type addModuleRequest struct {
	CourseID  string        `json:"course_id"`
	VersionID string        `json:"version_id"`
	Module    domain.Module `json:"module"`
}

type updateModuleRequest struct {
	CourseID      string              `json:"course_id"`
	VersionID     string              `json:"version_id"`
	ModuleID      string              `json:"module_id"`
	UpdatedFields domain.ModuleFields `json:"updated_fields"`
}

type addSubmoduleRequest struct {
	ModuleID  string           `json:"module_id"`
	VersionID string           `json:"version_id"`
	Submodule domain.Submodule `json:"submodule"`
}

type updateSubmoduleRequest struct {
	ModuleID      string                 `json:"module_id"`
	VersionID     string                 `json:"version_id"`
	SubmoduleID   string                 `json:"submodule_id"`
	UpdatedFields domain.SubmoduleFields `json:"updated_fields"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

// --- modules ---

func (c *Client) ListModules(ctx context.Context, courseID, versionID string) ([]domain.Module, error) {
	var out modulesResponse
	q := url.Values{"course_id": {courseID}, "version_id": {versionID}}
	if err := c.do(ctx, c.http, "list modules", http.MethodGet, "/course/get_modules", q, nil, &out); err != nil {
		return nil, err
	}
	if out.Modules == nil {
		return []domain.Module{}, nil
	}
	return out.Modules, nil
}

func (c *Client) GetModule(ctx context.Context, courseID, versionID, moduleID string) (domain.Module, error) {
	var out modulesResponse
	q := url.Values{"course_id": {courseID}, "version_id": {versionID}, "module_id": {moduleID}}
	if err := c.do(ctx, c.http, "get module", http.MethodGet, "/course/get_modules", q, nil, &out); err != nil {
		return domain.Module{}, err
	}
	if out.Module == nil {
		return domain.Module{}, &domain.TransportError{Op: "get module", Status: http.StatusOK, Err: domain.ErrNotFound}
	}
	return *out.Module, nil
}

func (c *Client) AddModule(ctx context.Context, courseID, versionID string, module domain.Module) error {
	body := addModuleRequest{CourseID: courseID, VersionID: versionID, Module: module}
	return c.do(ctx, c.http, "add module", http.MethodPost, "/course/module/add", nil, body, nil)
}

func (c *Client) UpdateModule(ctx context.Context, courseID, versionID, moduleID string, fields domain.ModuleFields) error {
	fields.ID = moduleID
	body := updateModuleRequest{CourseID: courseID, VersionID: versionID, ModuleID: moduleID, UpdatedFields: fields}
	return c.do(ctx, c.http, "update module", http.MethodPut, "/course/module/update", nil, body, nil)
}

func (c *Client) DeleteModule(ctx context.Context, courseID, versionID, moduleID string) error {
	q := url.Values{"course_id": {courseID}, "version_id": {versionID}, "module_id": {moduleID}}
	return c.do(ctx, c.http, "delete module", http.MethodDelete, "/course/module/delete", q, nil, nil)
}

// --- submodules ---

func (c *Client) GenerateSubmodules(ctx context.Context, module domain.Module) (string, error) {
	start := time.Now()
	var out generateResponse
	if err := c.do(ctx, c.generate, "generate submodules", http.MethodPost, "/course/generate/submodules", nil, module, &out); err != nil {
		return "", err
	}
	if out.VersionID == "" {
		return "", &domain.TransportError{Op: "generate submodules", Status: http.StatusOK, Err: errors.New("response carried no version_id")}
	}
	c.log.Info("Generated submodules", "module_id", module.ID, "version_id", out.VersionID, "elapsed", time.Since(start))
	return out.VersionID, nil
}

func (c *Client) ListSubmodules(ctx context.Context, moduleID, versionID string) (domain.SubmoduleSet, error) {
	var out submodulesResponse
	q := url.Values{"module_id": {moduleID}, "version_id": {versionID}}
	if err := c.do(ctx, c.http, "list submodules", http.MethodGet, "/course/get_submodules", q, nil, &out); err != nil {
		return domain.SubmoduleSet{}, err
	}
	set := domain.SubmoduleSet{
		Submodules:  out.Submodules,
		Suggestions: make([]string, 0, len(out.Suggestions)),
	}
	for _, raw := range out.Suggestions {
		set.Suggestions = append(set.Suggestions, suggestionText(raw))
	}
	return set, nil
}

func (c *Client) AddSubmodule(ctx context.Context, moduleID, versionID string, submodule domain.Submodule) error {
	body := addSubmoduleRequest{ModuleID: moduleID, VersionID: versionID, Submodule: submodule}
	return c.do(ctx, c.http, "add submodule", http.MethodPost, "/course/submodules/add", nil, body, nil)
}

func (c *Client) UpdateSubmodule(ctx context.Context, moduleID, versionID, submoduleID string, fields domain.SubmoduleFields) error {
	body := updateSubmoduleRequest{ModuleID: moduleID, VersionID: versionID, SubmoduleID: submoduleID, UpdatedFields: fields}
	return c.do(ctx, c.http, "update submodule", http.MethodPut, "/course/submodules/update", nil, body, nil)
}

func (c *Client) DeleteSubmodule(ctx context.Context, moduleID, versionID, submoduleID string) error {
	q := url.Values{"module_id": {moduleID}, "version_id": {versionID}, "submodule_id": {submoduleID}}
	return c.do(ctx, c.http, "delete submodule", http.MethodDelete, "/course/submodules/delete", q, nil, nil)
}

// do issues one request and decodes a JSON response into out, if given. Every failure
// comes back as a *domain.TransportError.
func (c *Client) do(ctx context.Context, hc *http.Client, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.log.Warn("Course service request failed", "op", op, "error", err)
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := http.StatusText(resp.StatusCode)

	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != nil {
		if s, ok := parsed.Detail.(string); ok {
			detail = s
		} else if b, err := json.Marshal(parsed.Detail); err == nil {
			detail = string(b)
		}
	}

	var cause error = errors.New(detail)
	if resp.StatusCode == http.StatusNotFound {
		cause = fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	}
	return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: cause}
}

// suggestionText flattens a suggestion to display text; the service sends either
// plain strings or small objects.
func suggestionText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
