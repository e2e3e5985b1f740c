package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Typas/GW2-api-img/internal/gw2api/gw2apitest"
)

// isolateConfig points the config loader at an empty temp dir and clears
// GW2REF_* overrides.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{"GW2REF_API_BASE_URL", "GW2REF_API_CHUNK_SIZE", "GW2REF_API_LANG", "GW2REF_API_TIMEOUT"} {
		t.Setenv(env, "")
	}
	t.Setenv("GW2REF_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{}, args...))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newFakeAPI(t *testing.T) *gw2apitest.Server {
	return gw2apitest.NewServer(t, map[string][]map[string]any{
		"specializations": {
			{"id": 1, "name": "Zeal", "profession": "Guardian"},
		},
		"skills": {
			{"id": 9, "name": "Shelter", "icon": "shelter.png", "type": "Heal", "professions": []string{"Guardian"}},
		},
		"traits": {
			{"id": 5, "name": "Fiery Wrath", "icon": "wrath.png", "specialization": 1,
				"facts": []map[string]any{{"type": "Buff", "status": "Might", "icon": "might.png"}}},
		},
	})
}

func TestRootCommand_RendersMarkdown(t *testing.T) {
	isolateConfig(t)
	srv := newFakeAPI(t)
	t.Setenv("GW2REF_API_BASE_URL", srv.URL)

	out, err := execute(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := strings.Join([]string{
		"## Buffs",
		"[Might]: might.png",
		"## Guardian",
		"### Zeal",
		"[Fiery Wrath]: wrath.png",
		"## Guardian",
		"### Heal",
		"[Shelter]: shelter.png",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRootCommand_UsesConfiguredLangAndChunkSize(t *testing.T) {
	isolateConfig(t)
	srv := newFakeAPI(t)
	t.Setenv("GW2REF_API_BASE_URL", srv.URL)
	t.Setenv("GW2REF_API_LANG", "de")
	t.Setenv("GW2REF_API_CHUNK_SIZE", "1")

	if _, err := execute(t); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, r := range srv.Requests() {
		if r.Lang != "de" {
			t.Errorf("request %+v missing lang=de", r)
		}
		if len(r.IDs) > 1 {
			t.Errorf("request carried %d ids, want at most 1", len(r.IDs))
		}
	}
}

func TestRootCommand_FetchFailure(t *testing.T) {
	isolateConfig(t)
	srv := newFakeAPI(t)
	srv.Fail("traits")
	t.Setenv("GW2REF_API_BASE_URL", srv.URL)

	out, err := execute(t)
	if err == nil {
		t.Fatal("expected error when traits fail")
	}
	if !strings.Contains(err.Error(), "traits") {
		t.Errorf("error = %q, want it to mention traits", err.Error())
	}
	if out != "" {
		t.Errorf("output = %q, want nothing on failure", out)
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	isolateConfig(t)

	if _, err := execute(t, "skills"); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	isolateConfig(t)
	t.Setenv("GW2REF_API_CHUNK_SIZE", "500")

	_, err := execute(t)
	if err == nil {
		t.Fatal("expected error for oversized chunk size")
	}
	if !strings.Contains(err.Error(), "api.chunk_size") {
		t.Errorf("error = %q, want it to mention api.chunk_size", err.Error())
	}
}

func TestConfigSetAndShow(t *testing.T) {
	dir := isolateConfig(t)

	if _, err := execute(t, "config", "set", "api.lang", "fr"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gw2ref", "config.json"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	var saved map[string]any
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("parsing config file: %v", err)
	}
	if saved["api.lang"] != "fr" {
		t.Errorf("saved api.lang = %v, want fr", saved["api.lang"])
	}

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "fr") || !strings.Contains(out, "GW2REF_API_LANG") {
		t.Errorf("config show output = %q, want api.lang = fr", out)
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "config", "set", "server.port", "80")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("err = %v, want unknown config key", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "gw2ref version ") {
		t.Errorf("output = %q", out)
	}
}

func TestNoColor(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestNewLogger_Level(t *testing.T) {
	ctx := context.Background()
	if !newLogger("debug").Enabled(ctx, slog.LevelDebug) {
		t.Error("debug logger should enable debug level")
	}
	if newLogger("info").Enabled(ctx, slog.LevelDebug) {
		t.Error("info logger should not enable debug level")
	}
	if newLogger("nonsense").Enabled(ctx, slog.LevelDebug) {
		t.Error("unknown level should fall back to info")
	}
}
