package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Tool is a callable capability exposed to the model during a conversation.
// Execution failures meant for the conversation go in ToolResult.Error, not
// the returned error; the returned error is reserved for infrastructure
// faults.
type Tool interface {
	Info() *schema.ToolInfo
	Execute(ctx context.Context, args map[string]any) (ToolResult, error)
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
