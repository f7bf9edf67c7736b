package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// Viper keys for the cache section of the config file.
const (
	keyCacheType   = "cache.type"
	keyCacheDir    = "cache.dir"
	keyCacheTTL    = "cache.ttl"
	keyNATSURL     = "cache.nats_url"
	keyNATSBucket  = "cache.nats_bucket"
	keyPageSize    = "page_size"
	keyHTTPTimeout = "timeout"
)

// Settings holds the resolved CLI configuration: config file, B2BI_*
// environment variables and flags, in increasing precedence.
type Settings struct {
	RESTURL  string `json:"rest_url,omitempty" yaml:"rest_url,omitempty"`
	WSURL    string `json:"ws_url,omitempty"   yaml:"ws_url,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Token    string `json:"token,omitempty"    yaml:"token,omitempty"`

	PageSize int           `json:"page_size" yaml:"page_size"`
	Timeout  time.Duration `json:"timeout"   yaml:"timeout"`
	DryRun   bool          `json:"dry_run"   yaml:"dry_run"`
	Output   string        `json:"output"    yaml:"output"`
	Verbose  bool          `json:"verbose"   yaml:"verbose"`

	Cache CacheSettings `json:"cache" yaml:"cache"`
}

// CacheSettings selects and configures the response cache.
type CacheSettings struct {
	Type       string        `json:"type"                  yaml:"type"`
	Dir        string        `json:"dir,omitempty"         yaml:"dir,omitempty"`
	TTL        time.Duration `json:"ttl"                   yaml:"ttl"`
	NATSURL    string        `json:"nats_url,omitempty"    yaml:"nats_url,omitempty"`
	NATSBucket string        `json:"nats_bucket,omitempty" yaml:"nats_bucket,omitempty"`
}

// SetDefaults registers the default values of every setting.
func SetDefaults() {
	viper.SetDefault("output", constants.FormatTable)
	viper.SetDefault(keyPageSize, constants.DefaultPageSize)
	viper.SetDefault(keyHTTPTimeout, constants.DefaultHTTPTimeout)
	viper.SetDefault(keyCacheType, string(b2bi.CacheTypeNone))
	viper.SetDefault(keyCacheTTL, constants.DefaultCacheTTL)
	viper.SetDefault(keyNATSURL, nats.DefaultURL)
	viper.SetDefault(keyNATSBucket, constants.DefaultNATSBucket)
}

// LoadSettings reads the current settings from viper.
func LoadSettings() *Settings {
	return &Settings{
		RESTURL:  viper.GetString("rest_url"),
		WSURL:    viper.GetString("ws_url"),
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
		Token:    viper.GetString("token"),
		PageSize: viper.GetInt(keyPageSize),
		Timeout:  viper.GetDuration(keyHTTPTimeout),
		DryRun:   viper.GetBool("dry_run"),
		Output:   viper.GetString("output"),
		Verbose:  viper.GetBool("verbose"),
		Cache: CacheSettings{
			Type:       viper.GetString(keyCacheType),
			Dir:        viper.GetString(keyCacheDir),
			TTL:        viper.GetDuration(keyCacheTTL),
			NATSURL:    viper.GetString(keyNATSURL),
			NATSBucket: viper.GetString(keyNATSBucket),
		},
	}
}

// Masked returns a copy with secrets replaced for display.
func (s *Settings) Masked() *Settings {
	masked := *s

	if masked.Password != "" {
		masked.Password = constants.MaskedSecret
	}

	if masked.Token != "" {
		masked.Token = constants.MaskedSecret
	}

	return &masked
}

// ClientConfig converts the settings to a client configuration.
func (s *Settings) ClientConfig() (*b2bi.Config, error) {
	if s.RESTURL == "" && s.WSURL == "" {
		return nil, constants.ErrNoRESTEndpoint
	}

	cacheConfig, err := s.Cache.cacheConfig()
	if err != nil {
		return nil, err
	}

	return &b2bi.Config{
		RESTEndpoint: s.RESTURL,
		WSEndpoint:   s.WSURL,
		Username:     s.Username,
		Password:     s.Password,
		AccessToken:  s.Token,
		PageSize:     s.PageSize,
		Timeout:      s.Timeout,
		DryRun:       s.DryRun,
		Debug:        s.Verbose,
		Cache:        cacheConfig,
	}, nil
}

func (c CacheSettings) cacheConfig() (*b2bi.CacheConfig, error) {
	cacheType := b2bi.CacheType(strings.ToLower(strings.TrimSpace(c.Type)))

	switch cacheType {
	case "", b2bi.CacheTypeNone:
		return nil, nil //nolint:nilnil // caching disabled
	case b2bi.CacheTypeFile, b2bi.CacheTypeMemory:
		return &b2bi.CacheConfig{Type: cacheType, Dir: c.Dir, TTL: c.TTL}, nil
	case b2bi.CacheTypeNATS:
		return &b2bi.CacheConfig{
			Type: cacheType,
			TTL:  c.TTL,
			NATS: &b2bi.NATSKVConfig{
				URL:    c.NATSURL,
				Bucket: c.NATSBucket,
				TTL:    c.TTL,
				Options: []nats.Option{
					nats.Name("b2bi-cli"),
				},
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", b2bi.ErrUnsupportedCacheType, c.Type)
	}
}
