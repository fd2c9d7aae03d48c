package toolserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/orca-network/orca/engine/core"
)

const (
	statusSuccess = "success"
	statusCreated = "created"
	statusError   = "error"
)

type errorEnvelope struct {
	Status     string    `json:"status"`
	Error      string    `json:"error"`
	Kind       core.Kind `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Body       *string   `json:"body,omitempty"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult renders err as the error envelope. Rejected agent calls carry
// the remote status code and body.
func errorResult(err error) *mcp.CallToolResult {
	env := errorEnvelope{
		Status: statusError,
		Error:  err.Error(),
		Kind:   core.KindOf(err),
	}
	var rejected *core.RemoteRejectedError
	if errors.As(err, &rejected) {
		env.StatusCode = rejected.StatusCode
		body := rejected.Body
		env.Body = &body
	}
	data, marshalErr := json.MarshalIndent(env, "", "  ")
	if marshalErr != nil {
		data = []byte(`{"status":"error","error":"failed to encode error","kind":"internal_error"}`)
	}
	res := mcp.NewToolResultText(string(data))
	res.IsError = true
	return res
}
