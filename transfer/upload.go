package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

const (
	// UploadFieldName is the multipart field the companion server reads.
	UploadFieldName = "file"
	// UploadContentType is declared for the part even though the bytes are the raw image.
	UploadContentType = "application/pdf"
)

// Client delivers captured images to the companion server.
type Client struct {
	HTTP    *http.Client
	Timeout time.Duration
	Now     func() time.Time
}

// NewClient returns a client using the shared upload transport and the 30s upload bound.
func NewClient() *Client {
	return &Client{
		HTTP:    tool.UploadHttpClient,
		Timeout: tool.UploadTimeout,
		Now:     time.Now,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return tool.UploadHttpClient
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return tool.UploadTimeout
}

// UploadFileName builds scan_{epochMillis}.pdf.
func UploadFileName(t time.Time) string {
	return fmt.Sprintf("scan_%d.pdf", t.UnixMilli())
}

// Upload sends image as the single multipart attachment to POST http://{endpoint}/upload.
// It never retries; the caller decides what to do with a failure.
func (c *Client) Upload(ctx context.Context, endpoint string, image types.ImageReference) types.UploadResult {
	endpoint = tool.NormalizeEndpoint(endpoint)
	if endpoint == "" {
		tool.DefaultLogger.Warn("Upload: no endpoint configured")
		return types.UploadResult{Kind: types.UploadNoEndpointConfigured, Cause: types.ErrNoEndpointConfigured}
	}
	result := types.UploadResult{Endpoint: endpoint}
	urlStr, err := tool.BuildUploadURL(endpoint)
	if err != nil {
		result.Kind = types.UploadTransportFailure
		result.Cause = err
		return result
	}

	src, size, err := tool.OpenImage(image)
	if err != nil {
		tool.DefaultLogger.Errorf("Upload: %v", err)
		result.Kind = types.UploadImageUnavailable
		result.Cause = err
		return result
	}
	defer src.Close()

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	result.FileName = UploadFileName(now())
	head, tail, contentType, err := multipartFrame(result.FileName)
	if err != nil {
		result.Kind = types.UploadTransportFailure
		result.Cause = err
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	body := &tool.CountingReader{R: io.LimitReader(src, size)}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr,
		io.MultiReader(bytes.NewReader(head), body, bytes.NewReader(tail)))
	if err != nil {
		result.Kind = types.UploadTransportFailure
		result.Cause = fmt.Errorf("failed to create upload request: %v", err)
		return result
	}
	req.ContentLength = int64(len(head)) + size + int64(len(tail))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	tool.DefaultLogger.Infof("Uploading %s as %s to %s (%s)", image, result.FileName, urlStr, humanize.Bytes(uint64(size)))
	resp, err := c.httpClient().Do(req)
	if err != nil {
		result.Kind = types.UploadTransportFailure
		result.Cause = err
		result.Timeout = isTimeout(err)
		tool.DefaultLogger.Errorf("Upload to %s failed: %v", endpoint, err)
		return result
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	result.StatusCode = resp.StatusCode
	result.Bytes = body.N
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		result.Kind = types.UploadServerRejected
		result.Cause = fmt.Errorf("upload request failed: %s", resp.Status)
		tool.DefaultLogger.Errorf("Upload to %s rejected: %s", endpoint, resp.Status)
		return result
	}
	result.Kind = types.UploadSuccess
	tool.DefaultLogger.Infof("Document %s sent successfully to %s (%s)", result.FileName, endpoint, humanize.Bytes(uint64(body.N)))
	return result
}

// multipartFrame renders everything around the file bytes so the body can stream with a known length.
func multipartFrame(fileName string) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadFieldName, fileName))
	header.Set("Content-Type", UploadContentType)
	if _, err := mw.CreatePart(header); err != nil {
		return nil, nil, "", fmt.Errorf("failed to create multipart part: %v", err)
	}
	head = append([]byte(nil), buf.Bytes()...)
	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, nil, "", fmt.Errorf("failed to close multipart body: %v", err)
	}
	tail = append([]byte(nil), buf.Bytes()...)
	return head, tail, mw.FormDataContentType(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
