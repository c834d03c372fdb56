package domain

import (
	"fmt"
	"strings"
	"time"
)

// ServiceEndpoint describes one backend. STT and chat each get their own.
type ServiceEndpoint struct {
	BaseURL        string
	TimeoutSeconds int
}

func (e ServiceEndpoint) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// URL joins the base URL and a route without doubling slashes.
func (e ServiceEndpoint) URL(route string) string {
	return strings.TrimSuffix(e.BaseURL, "/") + "/" + strings.TrimPrefix(route, "/")
}

func (e ServiceEndpoint) Validate() error {
	if e.BaseURL == "" {
		return fmt.Errorf("base url is empty")
	}
	if e.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", e.TimeoutSeconds)
	}
	return nil
}
