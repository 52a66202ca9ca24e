// Package mocks provides fakes for the services whitebox suites talk to.
//
// The mocks are organized by component type:
//   - NovaServer: an in-memory compute API served through fiber and httptest
//   - MockRunner: an ssh.Runner driven by a function field
//   - MockLocalRunner: a novamanage.LocalRunner driven by a function field
//
// Each mock implementation follows these principles:
//  1. Implements the same interface as the real component
//  2. Provides configurable behavior through function fields or setters
//  3. Records calls so tests can assert on them
//
// Example usage:
//
//	nova := mocks.NewNovaServer()
//	defer nova.Close()
//	nova.SetBuildPolls(2)
//
//	runner := &mocks.MockRunner{
//		ExecFunc: func(ctx context.Context, cmd string) (string, string, error) {
//			return "Current version: 402\n", "", nil
//		},
//	}
package mocks
