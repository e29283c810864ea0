// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package client provides a rate-limited JSON API client for the third-party services whose credentials
// are kept in the provider settings store.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-rootcerts"

	"github.com/hashicorp/hcsecrets/redact"
)

// TLSConfig contains the parameters needed to configure TLS on the HTTP client
// used to communicate with an API.
type TLSConfig struct {
	// CACert is the path to a PEM-encoded CA cert file to use to verify the
	// server SSL certificate. It takes precedence over CACertBytes
	// and CAPath.
	CACert string

	// CACertBytes is a PEM-encoded certificate or bundle. It takes precedence
	// over CAPath.
	CACertBytes []byte

	// CAPath is the path to a directory of PEM-encoded CA cert files to verify
	// the server SSL certificate.
	CAPath string

	// ClientCert is the path to the certificate for communication
	ClientCert string

	// ClientKey is the path to the private key for communication
	ClientKey string

	// TLSServerName, if set, is used to set the SNI host when connecting via
	// TLS.
	TLSServerName string

	// Insecure enables or disables SSL verification. Setting to `false` is highly
	// discouraged.
	Insecure bool
}

func (t TLSConfig) isZero() bool {
	return t.CACert == "" && len(t.CACertBytes) == 0 && t.CAPath == "" && t.ClientCert == "" &&
		t.ClientKey == "" && t.TLSServerName == "" && !t.Insecure
}

func (t TLSConfig) hasCA() bool {
	return t.CACert != "" || len(t.CACertBytes) != 0 || t.CAPath != ""
}

// APIConfig describes an API endpoint and how requests to it are paced.
type APIConfig struct {
	Product   string
	BaseURL   string
	TLSConfig TLSConfig

	// Interval and Burst configure the request rate; see NewRateLimitedExecutor.
	Interval time.Duration
	Burst    int
}

// APIClient can make API calls.
type APIClient struct {
	Product string `json:"product"`
	BaseURL string `json:"baseurl"`
	// headers may contain secrets, so *do not export*
	headers map[string]string
	exec    Executor
	scrub   []*redact.Pattern
	l       hclog.Logger
}

// NewAPIClient builds a client whose requests carry headers and go through a RateLimitedExecutor. Every
// header value is scrubbed from the error messages the client returns.
func NewAPIClient(cfg APIConfig, headers map[string]string, l hclog.Logger) (*APIClient, error) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	transport, err := newHTTPTransport(httpTransportConfig{tlsConfig: cfg.TLSConfig})
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Transport: transport}

	scrub := make([]*redact.Pattern, 0, len(headers))
	for _, v := range headers {
		scrub = append(scrub, redact.Literal(v))
		if _, secret, ok := strings.Cut(v, " "); ok {
			scrub = append(scrub, redact.Literal(secret))
		}
	}

	return &APIClient{
		Product: cfg.Product,
		BaseURL: cfg.BaseURL,
		headers: headers,
		exec:    NewRateLimitedExecutor(httpClient, cfg.Interval, cfg.Burst),
		scrub:   redact.Flatten(scrub),
		l:       l.Named(cfg.Product),
	}, nil
}

// Get makes a GET request to a given path.
func (c *APIClient) Get(ctx context.Context, path string) (interface{}, error) {
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// Request sends body, JSON-encoded when non-nil, to path and decodes the JSON response. An empty response
// body decodes to nil.
func (c *APIClient) Request(ctx context.Context, method, path string, body interface{}, query url.Values) (interface{}, error) {
	apiErr := &APIError{Product: c.Product, Method: method, Path: path}

	var reader io.Reader = http.NoBody
	if body != nil {
		bts, err := json.Marshal(body)
		if err != nil {
			apiErr.Err = fmt.Errorf("encoding request body: %w", err)
			return nil, apiErr
		}
		reader = bytes.NewReader(bts)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		apiErr.Err = err
		return nil, apiErr
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.l.Debug("api request", "method", method, "path", path)
	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		apiErr.Err = err
		apiErr.Message = c.scrubbed(err.Error())
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr.Err = err
		return nil, apiErr
	}

	var iface interface{}
	var decodeErr error
	if len(bytes.TrimSpace(respBody)) != 0 {
		decodeErr = json.Unmarshal(respBody, &iface)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Status = resp.Status
		apiErr.Message = c.scrubbed(errorMessage(iface, respBody))
		c.l.Warn("api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, apiErr
	}
	if decodeErr != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Status = resp.Status
		apiErr.Err = fmt.Errorf("decoding response: %w", decodeErr)
		return nil, apiErr
	}
	return iface, nil
}

func (c *APIClient) url(path string, query url.Values) string {
	u := strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(query) != 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *APIClient) scrubbed(s string) string {
	out, err := redact.String(s, c.scrub)
	if err != nil {
		return ""
	}
	return out
}

// errorMessage prefers the "message" field that JSON APIs put in error bodies and falls back to the raw body.
func errorMessage(iface interface{}, raw []byte) string {
	if m, ok := iface.(map[string]interface{}); ok {
		if msg, ok := m["message"].(string); ok {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}

// APIError is returned for every failed request: transport errors, undecodable responses and non-2xx
// statuses alike. Message never contains header secrets.
type APIError struct {
	Product    string
	Method     string
	Path       string
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s API %s %s", e.Product, e.Method, e.Path)
	if e.Status != "" {
		fmt.Fprintf(&b, ": %s", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// IsStatus reports whether err is an APIError carrying the given HTTP status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type httpTransportConfig struct {
	tlsConfig         TLSConfig
	tlsConfigFunction func(TLSConfig) (*tls.Config, error)
}

func newHTTPTransport(cfg httpTransportConfig) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.tlsConfig.isZero() {
		return transport, nil
	}
	if cfg.tlsConfigFunction == nil {
		cfg.tlsConfigFunction = createTLSClientConfig
	}
	tlsConfig, err := cfg.tlsConfigFunction(cfg.tlsConfig)
	if err != nil {
		return nil, err
	}
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

func createTLSClientConfig(t TLSConfig) (*tls.Config, error) {
	if (t.ClientCert == "") != (t.ClientKey == "") {
		return nil, errors.New("client certificate and key must be provided together")
	}

	tlsConfig := &tls.Config{
		ServerName:         t.TLSServerName,
		InsecureSkipVerify: t.Insecure,
	}

	if t.hasCA() {
		err := rootcerts.ConfigureTLS(tlsConfig, &rootcerts.Config{
			CAFile:        t.CACert,
			CACertificate: t.CACertBytes,
			CAPath:        t.CAPath,
		})
		if err != nil {
			return nil, err
		}
	}

	if t.ClientCert != "" {
		cert, err := tls.LoadX509KeyPair(t.ClientCert, t.ClientKey)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
