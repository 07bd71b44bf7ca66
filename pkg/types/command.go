package types

// CommandTemplate is a reusable action/expected-result pair. Both texts may
// contain {Category} placeholders resolved when a step is composed.
type CommandTemplate struct {
	Name     string `json:"-"`
	Action   string `json:"Action"`
	Expected string `json:"Expected Result"`
}
