package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"deadair/internal/config"
	"deadair/internal/testsupport"
)

const detectLog = `[silencedetect @ 0x55d5c8a0] silence_start: 20
[silencedetect @ 0x55d5c8a0] silence_end: 24 | silence_duration: 4
[silencedetect @ 0x55d5c8a0] silence_start: 40.5
[silencedetect @ 0x55d5c8a0] silence_end: 46 | silence_duration: 5.5
`

type cliTestEnv struct {
	cfg        *config.Config
	root       string
	inputDir   string
	outputDir  string
	configPath string
	logPath    string
}

// setupCLITestEnv writes a config file backed by the testsupport ffmpeg
// stubs, with detectLog as the silencedetect output and as a saved log.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFmpeg(), testsupport.WithDetectLog(detectLog))
	root := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(root, "home"))

	env := &cliTestEnv{
		cfg:        cfg,
		root:       root,
		inputDir:   cfg.Paths.InputDir,
		outputDir:  cfg.Paths.OutputDir,
		configPath: filepath.Join(root, "config.toml"),
		logPath:    filepath.Join(root, "detect.txt"),
	}
	testsupport.WriteFile(t, env.logPath, detectLog)
	testsupport.WriteConfigFile(t, cfg, env.configPath)
	return env
}

func (e *cliTestEnv) addVideo(t *testing.T, name string) string {
	t.Helper()
	return testsupport.AddVideo(t, e.cfg, name)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath, "--log-level", "error")
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testsupport.WriteFile(t, path, content)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
