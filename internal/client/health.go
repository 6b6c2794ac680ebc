package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lox/klondike/internal/server"
)

// WaitForHealthy polls the server's /health endpoint until it answers 200 OK
// or the context is cancelled.
func WaitForHealthy(ctx context.Context, serverURL string) (server.Health, error) {
	healthURL := strings.TrimSuffix(serverURL, "/") + "/health"
	httpClient := &http.Client{Timeout: 1 * time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if health, ok := checkHealth(ctx, httpClient, healthURL); ok {
			return health, nil
		}
		select {
		case <-ctx.Done():
			return server.Health{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func checkHealth(ctx context.Context, httpClient *http.Client, healthURL string) (server.Health, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return server.Health{}, false
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return server.Health{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return server.Health{}, false
	}
	var health server.Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return server.Health{}, false
	}
	return health, true
}
