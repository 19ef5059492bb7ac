package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validate = validator.New()

// settings is the resolved CLI configuration.
type settings struct {
	ProjectID     string        `validate:"required"`
	DeliveryURL   string        `validate:"omitempty,url"`
	PreviewURL    string        `validate:"omitempty,url"`
	ManagementURL string        `validate:"omitempty,url"`
	Preview       bool
	Output        string        `validate:"oneof=table json yaml"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	UserAgent     string        `validate:"required"`
	Timeout       time.Duration `validate:"gte=0"`
	RedisURL      string
	NATSURL       string
	NATSSubject   string
	MetricsAddr   string
	Stats         bool
	Headers       map[string]string
}

func bindPersistentFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.kontent/config.yml)")
	flags.StringP("project-id", "p", "", "project (environment) ID")
	flags.String("delivery-url", "", "Delivery API base URL")
	flags.String("preview-url", "", "Delivery preview API base URL")
	flags.String("management-url", "", "Management API base URL")
	flags.Bool("preview", false, "query the preview Delivery API")
	flags.StringP("output", "o", "table", "output format (table, json, yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("user-agent", "kontent-cli/"+version, "User-Agent header")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout per attempt")
	flags.String("redis-url", "", "redis URL for the shared cache and rate limit state")
	flags.String("nats-url", "", "NATS URL; publishes one event per fetched page")
	flags.String("nats-subject", "kontent.pages", "NATS subject prefix for page events")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	flags.Bool("stats", false, "print kontent_* metrics to stderr when done")
	flags.StringArrayP("header", "H", nil, "extra request header as 'Name: value' or name=value (repeatable)")

	for _, name := range []string{
		"config", "project-id", "delivery-url", "preview-url", "management-url", "preview",
		"output", "log-level", "user-agent", "timeout", "redis-url", "nats-url",
		"nats-subject", "metrics-addr", "stats", "header",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// readConfig wires environment variables and the optional config file into v.
func readConfig(v *viper.Viper) error {
	v.SetEnvPrefix("KONTENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(home, ".kontent"))
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

func loadSettings(v *viper.Viper) (settings, error) {
	headers, err := parseHeaders(v.GetStringSlice("header"))
	if err != nil {
		return settings{}, err
	}
	for name, value := range v.GetStringMapString("headers") {
		if _, ok := headers[name]; !ok {
			headers[name] = value
		}
	}

	s := settings{
		ProjectID:     v.GetString("project-id"),
		DeliveryURL:   v.GetString("delivery-url"),
		PreviewURL:    v.GetString("preview-url"),
		ManagementURL: v.GetString("management-url"),
		Preview:       v.GetBool("preview"),
		Output:        v.GetString("output"),
		LogLevel:      v.GetString("log-level"),
		UserAgent:     v.GetString("user-agent"),
		Timeout:       v.GetDuration("timeout"),
		RedisURL:      v.GetString("redis-url"),
		NATSURL:       v.GetString("nats-url"),
		NATSSubject:   v.GetString("nats-subject"),
		MetricsAddr:   v.GetString("metrics-addr"),
		Stats:         v.GetBool("stats"),
		Headers:       headers,
	}
	if err := validate.Struct(s); err != nil {
		return settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// parseHeaders accepts "Name: value" and "name=value".
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		i := strings.IndexAny(h, ":=")
		if i <= 0 || strings.TrimSpace(h[:i]) == "" {
			return nil, fmt.Errorf("invalid header %q: want 'Name: value' or name=value", h)
		}
		headers[strings.TrimSpace(h[:i])] = strings.TrimSpace(h[i+1:])
	}
	return headers, nil
}
