package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// FetchServerStatus reads GET /status from the companion server: its address and recent uploads.
func (c *Client) FetchServerStatus(ctx context.Context, endpoint string) (*types.ServerStatus, error) {
	endpoint = tool.NormalizeEndpoint(endpoint)
	if endpoint == "" {
		return nil, types.ErrNoEndpointConfigured
	}
	urlStr, err := tool.BuildStatusURL(endpoint)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, tool.ConnectionTestTimeout)
	defer cancel()

	req, err := tool.NewHTTPReqWithApplication(http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %v", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send status request to %s: %w", urlStr, err)
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if closeErr := resp.Body.Close(); closeErr != nil {
		tool.DefaultLogger.Errorf("Failed to close response body: %v", closeErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read status response body: %v", readErr)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request failed with status: %s", resp.Status)
	}
	var status types.ServerStatus
	if err := sonic.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %v", err)
	}
	tool.DefaultLogger.Debugf("FetchServerStatus: %s reports %d files in %s", endpoint, status.FileCount, status.UploadFolder)
	return &status, nil
}
