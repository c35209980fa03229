// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
type mockProvider struct {
	name       string
	response   string
	err        error
	callCount  int
	lastSystem string
	lastUser   string
	mu         sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hola desde el mock"}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		result, err := reg.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "Hola desde el mock" {
			t.Errorf("result: got %q", result)
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		if mock.lastSystem != "system" || mock.lastUser != "user" {
			t.Errorf("prompts: got (%q, %q)", mock.lastSystem, mock.lastUser)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		mock := &mockProvider{name: "test", err: fmt.Errorf("api failure")}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		_, err := reg.Generate(context.Background(), "system", "user")
		if err == nil || err.Error() != "api failure" {
			t.Fatalf("error: got %v, want api failure", err)
		}
	})

	t.Run("error when active name is not registered", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{"openai": &mockProvider{name: "openai"}},
			active:    "gemini",
		}

		if _, err := reg.Generate(context.Background(), "system", "user"); err == nil {
			t.Fatal("expected error for unregistered active provider, got nil")
		}
	})
}

// ---------- NewRegistry ----------

func TestNewRegistrySkipsEmptyAPIKey(t *testing.T) {
	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini": {APIKey: ""},
		"claude": {APIKey: "sk-ant-test"},
	})

	if reg.HasProvider("gemini") {
		t.Error("gemini should be skipped without an API key")
	}
	if !reg.HasProvider("claude") {
		t.Error("claude should be registered")
	}
}

func TestNewRegistryIgnoresUnknownProvider(t *testing.T) {
	reg := NewRegistry("llama", map[string]ProviderConfig{
		"llama": {APIKey: "key"},
	})

	if got := reg.Available(); len(got) != 0 {
		t.Errorf("Available: got %v, want none", got)
	}
}

func TestNewRegistryAppliesDefaultModel(t *testing.T) {
	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"gemini":  {APIKey: "k"},
		"mistral": {APIKey: "k", Model: "mistral-large-latest"},
	})

	p, err := reg.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	g, ok := p.(*geminiProvider)
	if !ok {
		t.Fatalf("active provider type: got %T", p)
	}
	if g.config.Model != DefaultModels["gemini"] {
		t.Errorf("gemini model: got %q, want %q", g.config.Model, DefaultModels["gemini"])
	}

	reg.mu.RLock()
	m := reg.providers["mistral"].(*openAIProvider)
	reg.mu.RUnlock()
	if m.config.Model != "mistral-large-latest" {
		t.Errorf("mistral model: got %q", m.config.Model)
	}
	if m.Name() != "mistral" {
		t.Errorf("mistral name: got %q", m.Name())
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "a"},
		"gemini":  {APIKey: "b"},
		"claude":  {APIKey: "c"},
		"mistral": {APIKey: "d"},
	})

	got := strings.Join(reg.Available(), ",")
	if got != "claude,gemini,mistral,openai" {
		t.Errorf("Available: got %q", got)
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry("custom", nil)
	reg.Register("custom", &mockProvider{name: "custom", response: "ok"})

	got, err := reg.Generate(context.Background(), "", "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "ok" {
		t.Errorf("Generate: got %q, want ok", got)
	}
	if reg.ActiveName() != "custom" {
		t.Errorf("ActiveName: got %q", reg.ActiveName())
	}
}

func TestRegistryConcurrency(t *testing.T) {
	reg := NewRegistry("test", nil)
	reg.Register("test", &mockProvider{name: "test", response: "ok"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Generate(context.Background(), "s", "u")
		}()
		go func(i int) {
			defer wg.Done()
			reg.Register(fmt.Sprintf("p%d", i), &mockProvider{name: "p"})
			reg.Available()
		}(i)
	}
	wg.Wait()
}

// ---------- DetectProvider ----------

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "gemini key", key: "AIza" + strings.Repeat("a", 35), want: "gemini"},
		{name: "gemini key too short", key: "AIza" + strings.Repeat("a", 10), want: ""},
		{name: "anthropic key", key: "sk-ant-api03-" + strings.Repeat("x", 40), want: "claude"},
		{name: "openai legacy key", key: "sk-" + strings.Repeat("A1", 24), want: "openai"},
		{name: "openai project key", key: "sk-proj-" + strings.Repeat("b_", 30), want: "openai"},
		{name: "url is not a key", key: "https://api.example.com/gen", want: ""},
		{name: "masked", key: "***", want: ""},
		{name: "empty", key: "", want: ""},
		{name: "mistral style key", key: strings.Repeat("Z", 32), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectProvider(tt.key); got != tt.want {
				t.Errorf("DetectProvider(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
