package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"restops/pkg/httpapi"
)

const configurationPath = "services/haproxy/configuration/"

// GetVersion retrieves the current configuration version.
func (c *DataplaneClient) GetVersion(ctx context.Context) (int64, error) {
	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      configurationPath + "version",
		Operation: "get configuration version",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get configuration version: %w", err)
	}

	// Trim whitespace (including newlines) from the version string
	versionStr := strings.TrimSpace(string(resp.Body))
	version, err := strconv.ParseInt(versionStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse version: %w", err)
	}

	return version, nil
}
