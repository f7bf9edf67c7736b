//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	RESTURL  string
	WSURL    string
	Username string
	Password string
	B2BIPath string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		RESTURL:  os.Getenv("B2BI_REST_URL"),
		WSURL:    os.Getenv("B2BI_WS_URL"),
		Username: os.Getenv("B2BI_USERNAME"),
		Password: os.Getenv("B2BI_PASSWORD"),
		B2BIPath: getB2BIPath(),
		Verbose:  os.Getenv("B2BI_VERBOSE") == "true",
	}
}

func getB2BIPath() string {
	if path := os.Getenv("B2BI_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../b2bi", "./b2bi", "../b2bi"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "b2bi"
}

// SkipIfMissingConfig skips the test unless a server and the CLI binary are available.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.RESTURL == "" {
		t.Skip("B2BI_REST_URL not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.B2BIPath); err != nil {
		t.Skipf("b2bi binary not found at %s, skipping integration test", config.B2BIPath)
	}
}

// CommandRunner runs b2bi commands against the configured server.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a b2bi command and returns its output
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a b2bi command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (string, string, error) {
	cmd := exec.Command(runner.config.B2BIPath, args...)
	cmd.Env = append(os.Environ(),
		"B2BI_REST_URL="+runner.config.RESTURL,
		"B2BI_WS_URL="+runner.config.WSURL,
		"B2BI_USERNAME="+runner.config.Username,
		"B2BI_PASSWORD="+runner.config.Password,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.B2BIPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout := stdoutBuf.String()
	stderr := stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(service, key string) {
	stdout, stderr, err := runner.Run("delete", service, key)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", service, key, stdout, stderr)
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var doc interface{}

	err := yaml.Unmarshal([]byte(output), &doc)
	if err != nil || doc == nil {
		t.Errorf("Output is not valid YAML: %s", output)
	}
}
