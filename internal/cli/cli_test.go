package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhoward/mailscope/internal/config"
	"github.com/mhoward/mailscope/internal/output"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestNewContext(t *testing.T) {
	globals := &Globals{
		JSON:    true,
		Verbose: true,
	}

	ctx, err := NewContext(globals)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if ctx.Formatter == nil {
		t.Fatal("Formatter should not be nil")
	}
	if !ctx.Formatter.JSON {
		t.Error("Formatter.JSON should be true")
	}
	if !ctx.Formatter.Verbose {
		t.Error("Formatter.Verbose should be true")
	}
	if ctx.Globals != globals {
		t.Error("Globals not set correctly")
	}
}

func TestNewContextWithBadConfigPath(t *testing.T) {
	ctx, err := NewContext(&Globals{Config: "/nonexistent/config.yaml"})
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	// Falls back to defaults rather than failing.
	if ctx.Config == nil {
		t.Error("Config should fall back to defaults")
	}
}

func testContext(t *testing.T) *Context {
	t.Helper()
	return &Context{
		Config:    config.DefaultConfig(),
		Formatter: output.New(false, false, true),
		Globals:   &Globals{Config: filepath.Join(t.TempDir(), "config.yaml")},
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*config.Config) bool
	}{
		{"email", "account.email", "x@example.com", func(c *config.Config) bool { return c.Account.Email == "x@example.com" }},
		{"server", "account.server", "mail.example.com", func(c *config.Config) bool { return c.Account.Server == "mail.example.com" }},
		{"port", "account.port", "143", func(c *config.Config) bool { return c.Account.Port == 143 }},
		{"folder", "defaults.folder", "Archive", func(c *config.Config) bool { return c.Defaults.Folder == "Archive" }},
		{"limit", "defaults.limit", "25", func(c *config.Config) bool { return c.Defaults.Limit == 25 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			cmd := &ConfigSetCmd{Key: tt.key, Value: tt.value}
			if err := cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !tt.check(ctx.Config) {
				t.Errorf("config not updated: %+v", ctx.Config)
			}

			// The value round-trips through the saved file.
			loaded, err := config.Load(ctx.Globals.Config)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.check(loaded) {
				t.Errorf("saved config not updated: %+v", loaded)
			}
		})
	}
}

func TestConfigSetRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"no dot", "email", "x@example.com"},
		{"unknown section", "server.host", "example.com"},
		{"unknown account key", "account.password", "nope"},
		{"unknown defaults key", "defaults.format", "json"},
		{"non-numeric port", "account.port", "abc"},
		{"non-numeric limit", "defaults.limit", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			cmd := &ConfigSetCmd{Key: tt.key, Value: tt.value}
			if err := cmd.Run(ctx); err == nil {
				t.Errorf("Run(%q=%q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestConnectSessionRequiresEmail(t *testing.T) {
	ctx := testContext(t)

	_, err := connectSession(ctx)
	if err == nil {
		t.Fatal("connectSession() should fail without a configured email")
	}
	if !strings.Contains(err.Error(), "config init") {
		t.Errorf("error = %q, want it to point at 'config init'", err)
	}
}
