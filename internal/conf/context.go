package conf

import "github.com/StateFromJakeFarm/research/internal/buildinfo"

// Context carries state shared by all subcommands of one process.
// Settings is populated by the root command before any subcommand runs.
type Context struct {
	Settings   *Settings
	ConfigFile string             // --config flag value
	RunID      string             // correlates log lines and metrics of one invocation
	Build      *buildinfo.Context // build metadata, nil in tests
}

// NewContext creates a Context holding the built-in defaults.
func NewContext(runID string) *Context {
	return &Context{
		Settings: DefaultSettings(),
		RunID:    runID,
	}
}
