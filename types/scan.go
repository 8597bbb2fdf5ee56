package types

import (
	"fmt"
	"time"
)

// CandidateEndpoint is one guessed server location on the local /24.
type CandidateEndpoint struct {
	Prefix string // first three octets, e.g. "192.168.1"
	Suffix int
	Port   int
}

// Host returns the dotted-quad address of the candidate.
func (c CandidateEndpoint) Host() string {
	return fmt.Sprintf("%s.%d", c.Prefix, c.Suffix)
}

// String returns host:port.
func (c CandidateEndpoint) String() string {
	return fmt.Sprintf("%s:%d", c.Host(), c.Port)
}

// EndpointSource tells where the active endpoint came from.
type EndpointSource string

const (
	EndpointSourceDiscovered EndpointSource = "discovered"
	EndpointSourceSaved      EndpointSource = "saved"
	EndpointSourceEnv        EndpointSource = "env"
)

// ActiveEndpoint is the one endpoint uploads currently go to.
type ActiveEndpoint struct {
	Endpoint  string         `json:"endpoint"`
	Source    EndpointSource `json:"source"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ProbeCause classifies why a liveness probe failed.
type ProbeCause string

const (
	ProbeCauseNone        ProbeCause = ""
	ProbeCauseTimeout     ProbeCause = "timeout"
	ProbeCauseUnreachable ProbeCause = "unreachable"
	ProbeCauseStatus      ProbeCause = "status"
	ProbeCauseMalformed   ProbeCause = "malformed"
	ProbeCauseInvalid     ProbeCause = "invalid_endpoint"
)

// ProbeResult is the outcome of one GET /discover.
type ProbeResult struct {
	Endpoint   string        `json:"endpoint"`
	OK         bool          `json:"ok"`
	StatusCode int           `json:"status_code,omitempty"`
	Cause      ProbeCause    `json:"cause,omitempty"`
	Message    string        `json:"message,omitempty"` // server-supplied message or the error text
	Elapsed    time.Duration `json:"elapsed"`
}

// DiscoverResponse is the JSON the companion server answers /discover with.
type DiscoverResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScanResult is returned by the scan-now API.
type ScanResult struct {
	Found    bool        `json:"found"`
	Endpoint string      `json:"endpoint,omitempty"`
	Network  NetworkInfo `json:"network"`
	Reason   string      `json:"reason,omitempty"`
}
