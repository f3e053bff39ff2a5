package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/alloyrpc/pkg/debug"
	"github.com/rhuss/alloyrpc/pkg/solver"
)

// Client talks to an engine sidecar.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var (
	_ solver.Parser = (*Client)(nil)
	_ solver.Engine = (*Client)(nil)
)

// New creates a Client. Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: BaseURL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Parse sends the model text to the sidecar and returns its commands.
// Sidecar warnings are forwarded to rep.
func (c *Client) Parse(ctx context.Context, text string, rep solver.Reporter) (*solver.Model, error) {
	var resp parseResponse
	if err := c.do(ctx, http.MethodPost, "/v1/parse", parseRequest{Model: text}, &resp); err != nil {
		return nil, err
	}

	if rep != nil {
		for _, w := range resp.Warnings {
			rep.Warning(w)
		}
	}

	cmds := make([]solver.Command, len(resp.Commands))
	for i, dto := range resp.Commands {
		kind := solver.KindRun
		if strings.EqualFold(dto.Kind, string(solver.KindCheck)) {
			kind = solver.KindCheck
		}
		cmds[i] = solver.Command{Index: i, Kind: kind, Label: dto.Label, Display: dto.Display}
	}
	return &solver.Model{Source: text, Commands: cmds}, nil
}

// Solve asks the sidecar to solve one command of m.
func (c *Client) Solve(ctx context.Context, m *solver.Model, cmd solver.Command, opts solver.Options) (solver.Solution, error) {
	req := solveRequest{Model: m.Source, Command: cmd.Index, Options: opts}
	var data solver.SolutionData
	if err := c.do(ctx, http.MethodPost, "/v1/solve", req, &data); err != nil {
		return nil, err
	}
	return solver.NewSolution(data), nil
}

// Backends returns the backend ids installed next to the sidecar's engine.
func (c *Client) Backends(ctx context.Context) ([]solver.Backend, error) {
	var resp backendsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/backends", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]solver.Backend, len(resp.Backends))
	for i, b := range resp.Backends {
		out[i] = solver.Backend(b)
	}
	return out, nil
}

// Ready checks the sidecar's health endpoint.
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
		debug.Trace("solver", "sidecar request", "path", path, "body", debug.Truncate(string(data), 2048))
	}

	url := c.cfg.BaseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	debug.Log("solver", "sidecar response", "method", method, "path", path,
		"status", httpResp.StatusCode, "duration", time.Since(start))

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return mapHTTPError(httpResp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
