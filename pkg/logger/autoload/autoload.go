// Package autoload initializes the global logger from the LOG-prefixed
// environment on import.
package autoload

import (
	configx "github.com/atende-ai/atende/pkg/config"
	logx "github.com/atende-ai/atende/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
