package mocks

import (
	"context"
	"sync"
)

// MockRunner implements ssh.Runner for testing
type MockRunner struct {
	ExecFunc func(ctx context.Context, cmd string) (string, string, error)

	mu       sync.Mutex
	commands []string
}

// Exec records cmd and delegates to ExecFunc when set
func (m *MockRunner) Exec(ctx context.Context, cmd string) (string, string, error) {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	m.mu.Unlock()

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, cmd)
	}
	return "", "", nil
}

// Commands returns every command passed to Exec
func (m *MockRunner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commands...)
}

// MockLocalRunner implements novamanage.LocalRunner for testing
type MockLocalRunner struct {
	RunFunc func(ctx context.Context, argv []string) (string, string, error)

	mu    sync.Mutex
	calls [][]string
}

// Run records argv and delegates to RunFunc when set
func (m *MockLocalRunner) Run(ctx context.Context, argv []string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), argv...))
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, argv)
	}
	return "", "", nil
}

// Calls returns the argv of every Run call
func (m *MockLocalRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}
