// Package backendsvc talks to the REST backend owning students, subjects and scores.
package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/gradebook/core"
)

type client struct {
	baseURL    string
	routeStyle string
	rest       *rest.Client
}

var _ core.Backend = (*client)(nil)

// NewClient returns a Backend reaching baseURL, e.g. http://localhost:8000/api.
// routeStyle selects how update and delete paths are built (core.RouteStyleAction or core.RouteStyleREST).
func NewClient(baseURL, routeStyle string, timeout time.Duration) core.Backend {
	if routeStyle != core.RouteStyleREST {
		routeStyle = core.RouteStyleAction
	}
	return &client{
		baseURL:    baseURL,
		routeStyle: routeStyle,
		rest:       &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func NewClientFromConfig(conf *core.Config) core.Backend {
	return NewClient(conf.Backend.BaseURL, conf.Backend.RouteStyle, conf.Backend.Timeout)
}

func (c *client) List(ctx context.Context, kind core.Kind) (json.RawMessage, error) {
	return c.send(ctx, rest.Get, "/"+kind.Resource()+"/list", nil)
}

func (c *client) Create(ctx context.Context, kind core.Kind, payload interface{}) (json.RawMessage, error) {
	return c.send(ctx, rest.Post, "/"+kind.Resource()+"/add", payload)
}

func (c *client) Update(ctx context.Context, kind core.Kind, id int, payload interface{}) (json.RawMessage, error) {
	path := "/" + kind.Resource() + "/update"
	if c.routeStyle == core.RouteStyleREST {
		path = "/" + kind.Resource() + "/" + strconv.Itoa(id)
	}
	return c.send(ctx, rest.Put, path, payload)
}

func (c *client) Delete(ctx context.Context, kind core.Kind, id int) (json.RawMessage, error) {
	path := "/" + kind.Resource() + "/remove/" + strconv.Itoa(id)
	if c.routeStyle == core.RouteStyleREST {
		path = "/" + kind.Resource() + "/" + strconv.Itoa(id)
	}
	return c.send(ctx, rest.Delete, path, nil)
}

func (c *client) send(ctx context.Context, method rest.Method, path string, payload interface{}) (json.RawMessage, error) {
	apiErr := &core.APIError{Method: string(method), Path: path}

	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			apiErr.Err = errors.Wrap(err, "encode payload")
			return nil, apiErr
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		apiErr.Err = err
		return nil, apiErr
	}
	apiErr.StatusCode = res.StatusCode
	apiErr.Body = res.Body

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		apiErr.Err = errors.New(http.StatusText(res.StatusCode))
		return nil, apiErr
	}
	data := []byte(res.Body)
	if !json.Valid(data) {
		apiErr.Err = errors.New("malformed JSON body")
		return nil, apiErr
	}
	if msg, ok := errorEnvelope(data); ok {
		apiErr.Err = errors.New(msg)
		return nil, apiErr
	}
	return json.RawMessage(bytes.TrimSpace(data)), nil
}

// errorEnvelope detects the bodies the backend answers with a 200 when it fails:
// {"message": ..., "error": ...} and {"message": "<Kind> not found"}.
func errorEnvelope(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return "", false
	}
	var env struct {
		Message string           `json:"message"`
		Error   *json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false
	}
	if env.Error == nil {
		if strings.HasSuffix(strings.ToLower(env.Message), "not found") {
			return env.Message, true
		}
		return "", false
	}
	var detail string
	if err := json.Unmarshal(*env.Error, &detail); err != nil {
		detail = string(*env.Error)
	}
	if env.Message == "" {
		return detail, true
	}
	return fmt.Sprintf("%s: %s", env.Message, detail), true
}
