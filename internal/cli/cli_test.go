package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/settingsgen/internal/config"
	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/pkg/version"
)

const drupalDdev = "web/sites/default/settings.ddev.php"

// setupCLI wires fresh dependencies with plain, headless output.
func setupCLI(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigDir, "")
	if err := InitDependencies(); err != nil {
		t.Fatal(err)
	}
	deps.Headless.ForceHeadless(true)
	deps.Theme.NoColor = true
	deps.LogOutput = io.Discard
	t.Cleanup(func() { deps = nil })
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeProjectConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, defs.ProjectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, defs.ConfigYAML), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const drupalConfig = "name: demo\ntype: drupal\ndocroot: web\n"

func TestCommandsRegistered(t *testing.T) {
	want := []string{"generate", "status", "clean", "watch", "config", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s should be registered as a subcommand of root", name)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig)

	out, err := executeCommand(t, "generate", "--root", root)
	if err != nil {
		t.Fatalf("generate error: %v\n%s", err, out)
	}
	if !strings.Contains(out, drupalDdev) {
		t.Errorf("output does not list %s:\n%s", drupalDdev, out)
	}
	found, err := fileguard.HasSignature(filepath.Join(root, filepath.FromSlash(drupalDdev)), defs.Signature)
	if err != nil || !found {
		t.Errorf("generated file missing or unsigned: %v", err)
	}
}

func TestGenerateWithoutConfig(t *testing.T) {
	setupCLI(t)

	_, err := executeCommand(t, "generate", "--root", t.TempDir())
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestGenerateStrict(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig)

	userFile := filepath.Join(root, filepath.FromSlash(drupalDdev))
	if err := os.MkdirAll(filepath.Dir(userFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userFile, []byte("<?php\n// mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "generate", "--root", root, "--strict"); !errors.Is(err, fileguard.ErrNotManaged) {
		t.Fatalf("expected ErrNotManaged with --strict, got %v", err)
	}

	out, err := executeCommand(t, "generate", "--root", root)
	if err != nil {
		t.Fatalf("generate without --strict: %v", err)
	}
	if !strings.Contains(out, "user-owned") {
		t.Errorf("skipped file not reported:\n%s", out)
	}
	got, _ := os.ReadFile(userFile)
	if string(got) != "<?php\n// mine\n" {
		t.Errorf("user file modified: %q", got)
	}
}

func TestStatusCommand(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig)
	if _, err := executeCommand(t, "generate", "--root", root); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "status", "--root", root, "--markdown")
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "| `"+drupalDdev+"` | managed | template_managed |") {
		t.Errorf("markdown row missing:\n%s", out)
	}
	if !strings.Contains(out, "sites/default/files") {
		t.Errorf("upload dir missing:\n%s", out)
	}

	out, err = executeCommand(t, "status", "--root", root)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, drupalDdev+" (managed)") {
		t.Errorf("plain status missing managed file:\n%s", out)
	}
}

func TestCleanCommand(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig)
	if _, err := executeCommand(t, "generate", "--root", root); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "clean", "--root", root)
	if err != nil {
		t.Fatalf("clean error: %v", err)
	}
	if !strings.Contains(out, "removed "+drupalDdev) {
		t.Errorf("output = %s", out)
	}
	if fileguard.FileExists(filepath.Join(root, filepath.FromSlash(drupalDdev))) {
		t.Error("generated file still present")
	}
}

func TestConfigCommandPreservesUnknownKeys(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig+"webserver_type: nginx-fpm\n")

	_, err := executeCommand(t, "config", "--root", root, "--non-interactive",
		"--type", "wordpress", "--docroot", "public")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, defs.ProjectDir, defs.ConfigYAML))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["name"] != "demo" || doc["type"] != "wordpress" || doc["docroot"] != "public" {
		t.Errorf("saved config = %v", doc)
	}
	if doc["webserver_type"] != "nginx-fpm" {
		t.Errorf("unknown key dropped: %v", doc)
	}
}

func TestConfigCommandCreatesConfig(t *testing.T) {
	setupCLI(t)
	root := filepath.Join(t.TempDir(), "my-site")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "config", "--root", root, "--type", "laravel"); err != nil {
		t.Fatalf("config error: %v", err)
	}
	cfg, err := config.NewLoader(nil).Load(filepath.Join(root, defs.ProjectDir))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "my-site" || cfg.Type != "laravel" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigCommandRejectsInvalidType(t *testing.T) {
	setupCLI(t)
	root := t.TempDir()
	writeProjectConfig(t, root, drupalConfig)

	_, err := executeCommand(t, "config", "--root", root, "--non-interactive", "--type", "joomla")
	if !errors.Is(err, config.ErrInvalidAppType) {
		t.Errorf("expected ErrInvalidAppType, got %v", err)
	}
}

func TestNameValidator(t *testing.T) {
	check := nameValidator(config.NewDefaultConfig())
	if err := check("my-site"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := check("-bad name"); err == nil {
		t.Error("invalid name accepted")
	}
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t)
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version.GetVersion()) {
		t.Errorf("output = %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	quiet := newLogger(config.SystemConfig{LogLevel: "info"}, false, io.Discard)
	if quiet.Enabled(ctx, slog.LevelDebug) || quiet.Enabled(ctx, slog.LevelInfo) {
		t.Error("info and debug should be suppressed without --verbose")
	}
	if !quiet.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled")
	}

	verbose := newLogger(config.SystemConfig{LogLevel: "error"}, true, io.Discard)
	if !verbose.Enabled(ctx, slog.LevelDebug) {
		t.Error("--verbose should enable debug")
	}

	var buf bytes.Buffer
	jsonLogger := newLogger(config.SystemConfig{LogLevel: "warn", LogFormat: "json"}, false, &buf)
	jsonLogger.Warn("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json handler output = %q", buf.String())
	}
}
