// Package gymhttp implements simulators backed by a remote OpenAI Gym
// HTTP API server (github.com/openai/gym-http-api).
//
// The server exposes each environment instance under
// /v1/envs/<instance_id>/ and exchanges JSON. Observations of any
// nesting depth are flattened in row major order. Atari games are
// served as simulator.Arcade simulators, with their action meanings
// taken from the ALE minimal action sets and their lives read from the
// "ale.lives" step information.
package gymhttp

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

	"github.com/samuelfneumann/rlcore/simulator"
)

// InstanceID identifies an environment instance on the server
type InstanceID string

// DefaultTimeout is the default timeout of each request
const DefaultTimeout = 30 * time.Second

// APIError is an error reported by the server
type APIError struct {
	Op      string
	Status  int
	Message string
}

// Error satisfies the error interface
func (a *APIError) Error() string {
	return fmt.Sprintf("%v: server responded %v: %v", a.Op, a.Status,
		a.Message)
}

// Client is a client of a Gym HTTP API server
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a new Client of the server at baseURL. If
// httpClient is nil, a client with DefaultTimeout is used.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("newClient: invalid url %v: %v", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("newClient: invalid url scheme %q",
			base.Scheme)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: base, http: httpClient}, nil
}

// Create creates a new instance of the environment envID
func (c *Client) Create(ctx context.Context, envID string) (InstanceID,
	error) {
	var resp struct {
		InstanceID InstanceID `json:"instance_id"`
	}
	req := map[string]string{"env_id": envID}
	if err := c.do(ctx, "create", http.MethodPost, "v1/envs/", req,
		&resp); err != nil {
		return "", err
	}
	return resp.InstanceID, nil
}

// List returns the environment name of every running instance
func (c *Client) List(ctx context.Context) (map[InstanceID]string, error) {
	var resp struct {
		Envs map[InstanceID]string `json:"all_envs"`
	}
	if err := c.do(ctx, "list", http.MethodGet, "v1/envs/", nil,
		&resp); err != nil {
		return nil, err
	}
	return resp.Envs, nil
}

// Reset resets an instance and returns its first observation
func (c *Client) Reset(ctx context.Context,
	id InstanceID) (simulator.Observation, error) {
	var resp struct {
		Observation interface{} `json:"observation"`
	}
	if err := c.do(ctx, "reset", http.MethodPost, c.path(id, "reset"),
		struct{}{}, &resp); err != nil {
		return simulator.Observation{}, err
	}

	obs, err := Flatten(resp.Observation)
	if err != nil {
		return simulator.Observation{}, fmt.Errorf("reset: %v", err)
	}
	return obs, nil
}

// StepResult is the outcome of a step on the server
type StepResult struct {
	Observation simulator.Observation
	Reward      float64
	Done        bool
	Info        simulator.Info
}

// Step takes a step in an instance
func (c *Client) Step(ctx context.Context, id InstanceID,
	action interface{}, render bool) (StepResult, error) {
	req := struct {
		Action interface{} `json:"action"`
		Render bool        `json:"render"`
	}{action, render}

	var resp struct {
		Observation interface{}    `json:"observation"`
		Reward      float64        `json:"reward"`
		Done        bool           `json:"done"`
		Info        simulator.Info `json:"info"`
	}
	if err := c.do(ctx, "step", http.MethodPost, c.path(id, "step"), req,
		&resp); err != nil {
		return StepResult{}, err
	}

	obs, err := Flatten(resp.Observation)
	if err != nil {
		return StepResult{}, fmt.Errorf("step: %v", err)
	}
	if resp.Info == nil {
		resp.Info = simulator.Info{}
	}
	return StepResult{obs, resp.Reward, resp.Done, resp.Info}, nil
}

// ActionSpace returns the action space of an instance
func (c *Client) ActionSpace(ctx context.Context,
	id InstanceID) (simulator.Space, error) {
	return c.space(ctx, "actionSpace", c.path(id, "action_space"))
}

// ObservationSpace returns the observation space of an instance
func (c *Client) ObservationSpace(ctx context.Context,
	id InstanceID) (simulator.Space, error) {
	return c.space(ctx, "observationSpace", c.path(id, "observation_space"))
}

// Close closes an instance
func (c *Client) Close(ctx context.Context, id InstanceID) error {
	return c.do(ctx, "close", http.MethodPost, c.path(id, "close"),
		struct{}{}, nil)
}

func (c *Client) space(ctx context.Context, op,
	path string) (simulator.Space, error) {
	var resp struct {
		Info struct {
			Name  string      `json:"name"`
			N     int         `json:"n"`
			Shape []int       `json:"shape"`
			Low   interface{} `json:"low"`
			High  interface{} `json:"high"`
		} `json:"info"`
	}
	if err := c.do(ctx, op, http.MethodGet, path, nil, &resp); err != nil {
		return simulator.Space{}, err
	}

	s := simulator.Space{
		Kind:  resp.Info.Name,
		N:     resp.Info.N,
		Shape: resp.Info.Shape,
	}
	if s.Kind == simulator.BoxKind {
		low, err := Flatten(resp.Info.Low)
		if err != nil {
			return simulator.Space{}, fmt.Errorf("%v: low: %v", op, err)
		}
		high, err := Flatten(resp.Info.High)
		if err != nil {
			return simulator.Space{}, fmt.Errorf("%v: high: %v", op, err)
		}
		s.Low, s.High = low.Data, high.Data
		if len(s.Shape) == 0 {
			s.Shape = low.Shape
		}
	}
	return s, nil
}

func (c *Client) path(id InstanceID, route string) string {
	return "v1/envs/" + url.PathEscape(string(id)) + "/" + route + "/"
}

// do performs a request, encoding body as JSON if non-nil and decoding
// the response into out if non-nil
func (c *Client) do(ctx context.Context, op, method, path string, body,
	out interface{}) error {
	u, err := c.base.Parse(path)
	if err != nil {
		return fmt.Errorf("%v: %v", op, err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%v: could not encode request: %v", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("%v: %v", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNoContent {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return &APIError{Op: op, Status: resp.StatusCode,
			Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%v: could not decode response: %v", op, err)
	}
	return nil
}

// Flatten flattens a decoded JSON number or nested array of numbers
// into an observation. Nested arrays must be rectangular.
func Flatten(v interface{}) (simulator.Observation, error) {
	switch v := v.(type) {
	case float64:
		return simulator.Observation{Data: []float64{v}}, nil

	case bool:
		if v {
			return simulator.Observation{Data: []float64{1}}, nil
		}
		return simulator.Observation{Data: []float64{0}}, nil

	case []interface{}:
		if len(v) == 0 {
			return simulator.Observation{Shape: []int{0}}, nil
		}

		var data []float64
		var inner []int
		for i, elem := range v {
			sub, err := Flatten(elem)
			if err != nil {
				return simulator.Observation{}, err
			}
			if i == 0 {
				inner = sub.Shape
				data = make([]float64, 0, len(v)*sub.Len())
			} else if !sameShape(inner, sub.Shape) {
				return simulator.Observation{}, fmt.Errorf("flatten: "+
					"ragged array at index %v", i)
			}
			data = append(data, sub.Data...)
		}
		return simulator.Observation{
			Data:  data,
			Shape: append([]int{len(v)}, inner...),
		}, nil

	default:
		return simulator.Observation{}, fmt.Errorf("flatten: unexpected "+
			"value of type %T", v)
	}
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
