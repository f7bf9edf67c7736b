package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2biclient"
)

// newLogger creates the CLI logger. Verbose mode logs at debug level.
func newLogger(settings *Settings, output io.Writer) hclog.Logger {
	level := hclog.Warn
	if settings.Verbose {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "b2bi",
		Level:  level,
		Output: output,
	})
}

// CreateClient builds a client from the current settings. When a username
// is configured without a password, the password is prompted for.
func CreateClient(cmd *cobra.Command) (b2bi.Client, error) {
	settings := LoadSettings()

	if settings.Username != "" && settings.Password == "" && settings.Token == "" {
		password, err := promptPassword(cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}

		settings.Password = password
	}

	return createClientWithSettings(commandContext(cmd), settings, cmd.ErrOrStderr())
}

func createClientWithSettings(ctx context.Context, settings *Settings, logOutput io.Writer) (b2bi.Client, error) {
	config, err := settings.ClientConfig()
	if err != nil {
		return nil, err
	}

	logger := b2bi.NewHCLogger(newLogger(settings, logOutput))
	config.Logger = logger

	if settings.Verbose {
		chain := b2bi.NewInterceptorChain()
		chain.AddRequestInterceptor(b2bi.LoggingInterceptor(logger))
		chain.AddResponseInterceptor(b2bi.LoggingResponseInterceptor(logger))

		collector := b2bi.NewMetricsCollector()
		collector.SetOnChange(func(endpoint string, metrics b2bi.Metrics) {
			logger.Debug("Call metrics", map[string]interface{}{
				"endpoint":        endpoint,
				"total_requests":  metrics.TotalRequests,
				"total_errors":    metrics.TotalErrors,
				"cache_hits":      metrics.CacheHits,
				"average_latency": metrics.AverageLatency.String(),
			})
		})
		collector.Install(chain)

		config.Interceptors = chain
	}

	client, err := b2biclient.New(ctx, config)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt io.Writer) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in an int

	if !term.IsTerminal(fd) {
		return "", constants.ErrPasswordPrompt
	}

	_, _ = fmt.Fprint(prompt, "Password: ")

	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(prompt)

	return string(bytePassword), nil
}

// commandContext returns the command context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd.Context() != nil {
		return cmd.Context()
	}

	return context.Background()
}
