package discover

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"

	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// maxProbeBody caps how much of a /discover answer is read.
const maxProbeBody = 64 * 1024

// Engine guesses and probes companion server endpoints.
type Engine struct {
	Client       *http.Client
	Port         int
	ProbeTimeout time.Duration // per candidate during discovery
	TestTimeout  time.Duration // user-initiated connection test
	// Limiter paces probes when set.
	Limiter *rate.Limiter
	// IcmpPrecheck skips candidates that do not answer an ICMP echo.
	IcmpPrecheck bool
	icmpProbe    func(host string, timeout time.Duration) bool
}

// NewEngine builds an engine from the app config.
func NewEngine(cfg types.AppConfig) *Engine {
	e := &Engine{
		Client:       tool.ProbeHttpClient,
		Port:         cfg.DiscoveryPort,
		ProbeTimeout: tool.ProbeTimeout,
		TestTimeout:  tool.ConnectionTestTimeout,
		IcmpPrecheck: cfg.IcmpPrecheck,
		icmpProbe:    tool.QuickICMPProbe,
	}
	if cfg.ProbeRatePPS > 0 {
		e.Limiter = rate.NewLimiter(rate.Limit(cfg.ProbeRatePPS), 1)
	}
	return e
}

func (e *Engine) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return tool.ProbeHttpClient
}

// Probe issues one GET /discover against endpoint, bounded by timeout.
// It never returns an error; every failure is folded into the result.
func (e *Engine) Probe(ctx context.Context, endpoint string, timeout time.Duration) (result types.ProbeResult) {
	result = types.ProbeResult{Endpoint: endpoint}
	urlStr, err := tool.BuildDiscoverURL(endpoint)
	if err != nil {
		result.Cause = types.ProbeCauseInvalid
		result.Message = err.Error()
		return result
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	req, err := tool.NewHTTPReqWithApplication(http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil))
	if err != nil {
		result.Cause = types.ProbeCauseInvalid
		result.Message = err.Error()
		return result
	}
	resp, err := e.client().Do(req)
	if err != nil {
		result.Cause = classifyTransportError(err)
		result.Message = err.Error()
		return result
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Debugf("Probe: failed to close response body: %v", err)
		}
	}()
	result.StatusCode = resp.StatusCode
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		result.Cause = types.ProbeCauseStatus
		result.Message = resp.Status
		return result
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		result.Cause = classifyTransportError(err)
		result.Message = err.Error()
		return result
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 {
		var remote types.DiscoverResponse
		if err := sonic.Unmarshal(body, &remote); err != nil {
			result.Cause = types.ProbeCauseMalformed
			result.Message = "malformed discover response: " + err.Error()
			return result
		}
		result.Message = remote.Message
	}
	result.OK = true
	return result
}

// classifyTransportError separates timeouts from every other transport failure.
func classifyTransportError(err error) types.ProbeCause {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ProbeCauseTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.ProbeCauseTimeout
	}
	if strings.Contains(err.Error(), "Client.Timeout") {
		return types.ProbeCauseTimeout
	}
	return types.ProbeCauseUnreachable
}

// Discover probes the candidates for localAddress in order and returns the first that answers.
// Individual probe failures are swallowed; only exhaustion is reported, as ok=false.
func (e *Engine) Discover(ctx context.Context, localAddress string) (string, bool) {
	candidates, err := BuildCandidates(localAddress, e.Port)
	if err != nil {
		tool.DefaultLogger.Debugf("Discover: %v", err)
		return "", false
	}
	tool.DefaultLogger.Debugf("Discover: probing %d candidates on %s.0/24", len(candidates), candidates[0].Prefix)
	for _, candidate := range candidates {
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				tool.DefaultLogger.Debugf("Discover: pacing aborted: %v", err)
				return "", false
			}
		}
		endpoint := candidate.String()
		if e.IcmpPrecheck && e.icmpProbe != nil && !e.icmpProbe(candidate.Host(), e.ProbeTimeout) {
			tool.DefaultLogger.Debugf("Discover: %s did not answer ICMP, skipping", candidate.Host())
			continue
		}
		result := e.Probe(ctx, endpoint, e.ProbeTimeout)
		if result.OK {
			tool.DefaultLogger.Infof("Server discovered at %s", endpoint)
			return endpoint, true
		}
		tool.DefaultLogger.Debugf("Discover: %s failed (%s): %s", endpoint, result.Cause, result.Message)
	}
	tool.DefaultLogger.Infof("Discover: %v after %d candidates", types.ErrDiscoveryExhausted, len(candidates))
	return "", false
}

// TestConnection runs the discovery probe against one user-supplied endpoint with the longer timeout.
func (e *Engine) TestConnection(ctx context.Context, endpoint string) types.ProbeResult {
	endpoint = tool.NormalizeEndpoint(endpoint)
	if endpoint == "" {
		return types.ProbeResult{Cause: types.ProbeCauseInvalid, Message: types.ErrEmptyEndpoint.Error()}
	}
	result := e.Probe(ctx, endpoint, e.TestTimeout)
	if result.OK {
		tool.DefaultLogger.Infof("Connection test to %s succeeded in %v", endpoint, result.Elapsed.Round(time.Millisecond))
	} else {
		tool.DefaultLogger.Warnf("Connection test to %s failed (%s): %s", endpoint, result.Cause, result.Message)
	}
	return result
}
