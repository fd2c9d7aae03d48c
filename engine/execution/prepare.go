package execution

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/orca-network/orca/engine/core"
)

// PreparePayload is the body posted to an agent's /prepare endpoint.
// JobInputHash is computed over JobInput alone.
type PreparePayload struct {
	ExecutionID  core.ID  `json:"execution_id"`
	Goal         string   `json:"goal"`
	JobInput     core.Map `json:"job_input"`
	JobInputHash string   `json:"job_input_hash"`
}

// BuildPreparePayload hashes the stored results and assembles the payload.
func BuildPreparePayload(exec *Execution) (*PreparePayload, error) {
	input := exec.Results
	if input == nil {
		input = core.Map{}
	}
	hash, err := core.ContentHash(input)
	if err != nil {
		return nil, core.ValidationError("execution results cannot be hashed: %s", err)
	}
	return &PreparePayload{
		ExecutionID:  exec.ID,
		Goal:         exec.Goal,
		JobInput:     input,
		JobInputHash: hash,
	}, nil
}

// PrepareResponse is a successful (2xx) agent reply.
type PrepareResponse struct {
	StatusCode int
	Body       []byte
}

// Dispatcher delivers prepare payloads to agents. Non-2xx replies yield a
// *core.RemoteRejectedError and transport failures wrap core.ErrRemoteUnreachable.
type Dispatcher interface {
	Prepare(ctx context.Context, prepareURL string, payload *PreparePayload) (*PrepareResponse, error)
}

// PrepareURL validates an agent base endpoint and appends /prepare.
func PrepareURL(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", core.ValidationError("agent api_endpoint %q is not an absolute http(s) URL", endpoint)
	}
	return fmt.Sprintf("%s/prepare", strings.TrimRight(raw, "/")), nil
}
