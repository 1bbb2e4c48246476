package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowlist/internal/config"
	"flowlist/internal/tasktree"
	"flowlist/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	llm        *testsupport.LLMServer
}

func setupCLITestEnv(t *testing.T, replies ...testsupport.Reply) *cliTestEnv {
	t.Helper()
	t.Setenv("FLOWLIST_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("FLOWLIST_CONFIG", "")

	server := testsupport.NewLLMServer(t, replies...)
	cfg := testsupport.NewConfig(t, testsupport.WithLLMServer(server))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, llm: server}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q
export_dir = %q

[llm]
api_key = %q
base_url = %q

[classification]
group_delay_ms = 0
retry_step_seconds = 0

[deconstruction]
retry_step_seconds = 0

[logging]
level = "error"
`,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Paths.ExportDir,
		cfg.LLM.APIKey,
		cfg.LLM.BaseURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCLI(t, args, env.configPath)
	return stdout, err
}

func (env *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := env.run(t, args...)
	if err != nil {
		t.Fatalf("flowlist %s: %v\noutput:\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// folders decodes `folders --json`.
func (env *cliTestEnv) folders(t *testing.T) []tasktree.Folder {
	t.Helper()
	out := env.mustRun(t, "folders", "--json")
	var folders []tasktree.Folder
	if err := json.Unmarshal([]byte(out), &folders); err != nil {
		t.Fatalf("decode folders: %v\n%s", err, out)
	}
	return folders
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", substr, output)
	}
}

func findFolder(t *testing.T, folders []tasktree.Folder, name string) tasktree.Folder {
	t.Helper()
	for _, f := range folders {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("folder %q not found in %v", name, tasktree.Names(folders))
	return tasktree.Folder{}
}
