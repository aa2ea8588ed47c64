// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by source adapters.
package httputil

import (
	"net/http"

	"github.com/pdiddy/pubsync/pkg/types"
)

// NewClient returns an HTTP client with the configured timeout that
// sends the configured User-Agent on every request, so individual
// adapters cannot forget to identify the tool to upstream APIs.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &userAgentTransport{
			agent: cfg.UserAgent,
			next:  http.DefaultTransport,
		},
	}
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.agent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}
