package contract

import "errors"

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrAgentNotFound  = errors.New("agent not found")
	ErrMalformedTool  = errors.New("malformed tool definition")
	ErrModelInvoke    = errors.New("model invoke failed")
	ErrValidation     = errors.New("validation failed")
)
