package composetest

import "github.com/fixturelab/composetest/internal/compose"

// SetRunner swaps the compose command runner so tests can stub the CLI.
func (f *Fixture) SetRunner(r compose.Runner) {
	f.compose.WithRunner(r)
}
