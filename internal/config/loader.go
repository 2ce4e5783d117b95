package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/sizeutil"
	"gopkg.in/yaml.v3"
)

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func parseSizeField(raw string) (int64, error) {
	n, err := sizeutil.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return n, nil
}

func parseDurationField(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration %q: %s", ErrInvalidConfig, raw, err.Error())
	}
	return d, nil
}

// fileDTO mirrors configDTO but is populated from YAML, the primary
// on-disk config format. Fields use yaml tags; zero values mean
// "not set" and fall through to whatever WithDefault/ApplyProfile already
// produced, matching newConfigFromDTO's override semantics.
type fileDTO struct {
	Profile string `yaml:"profile"`

	SeedURLs          []string `yaml:"seed_urls"`
	AllowedHosts      []string `yaml:"allowed_hosts"`
	AllowedPathPrefix []string `yaml:"allowed_path_prefix"`

	Crawl struct {
		MaxPages          int      `yaml:"max_pages"`
		MaxDepth          int      `yaml:"max_depth"`
		MaxConcurrent     int      `yaml:"max_concurrent"`
		RateLimit         float64  `yaml:"rate_limit"`
		PerHostConcurrent int      `yaml:"per_host_concurrent"`
		IncludePaths      []string `yaml:"include_paths"`
		ExcludePaths      []string `yaml:"exclude_paths"`
		Javascript        bool     `yaml:"javascript"`
		AdaptiveRateLimit bool     `yaml:"adaptive_rate_limit"`
	} `yaml:"crawl"`

	ContentFilter struct {
		Language         string   `yaml:"language"`
		ExcludeLanguages []string `yaml:"exclude_languages"`
		Deduplicate      bool     `yaml:"deduplicate"`
		StreamingDedup   bool     `yaml:"streaming_dedup"`
		MaxFileSize      string   `yaml:"max_file_size"`
		MaxTotalSize     string   `yaml:"max_total_size"`
		ExcludeSections  []string `yaml:"exclude_sections"`
	} `yaml:"content_filter"`

	Output struct {
		Directory      string `yaml:"directory"`
		Format         string `yaml:"format"`
		NamingStrategy string `yaml:"naming_strategy"`
		CreateIndex    bool   `yaml:"create_index"`
		RichMetadata   bool   `yaml:"rich_metadata"`
	} `yaml:"output"`

	Network struct {
		Proxy          string `yaml:"proxy"`
		UserAgent      string `yaml:"user_agent"`
		MaxRetries     int    `yaml:"max_retries"`
		ConnectTimeout string `yaml:"connect_timeout"`
		ReadTimeout    string `yaml:"read_timeout"`
	} `yaml:"network"`

	Auth struct {
		Type        string `yaml:"type"`
		Token       string `yaml:"token"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		Cookie      string `yaml:"cookie"`
		HeaderName  string `yaml:"header_name"`
		HeaderValue string `yaml:"header_value"`
	} `yaml:"auth"`

	Cache struct {
		Enabled       bool   `yaml:"enabled"`
		Directory     string `yaml:"directory"`
		TTLDays       int    `yaml:"ttl_days"`
		SkipUnchanged bool   `yaml:"skip_unchanged"`
		Resume        bool   `yaml:"resume"`
	} `yaml:"cache"`
}

// envVarPattern matches $VAR or ${VAR} references.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnv resolves $VAR / ${VAR} references against the process
// environment. Unset variables expand to the empty string, matching
// os.Expand's convention.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)
		if name[1] != "" {
			return os.Getenv(name[1])
		}
		return os.Getenv(name[2])
	})
}

// expandAuthEnv resolves environment variable references in an AuthConfig
// exactly once. It must be called during WithYAMLConfigFile construction
// and never again afterward — the config is immutable once built.
func expandAuthEnv(auth AuthConfig) AuthConfig {
	auth.Token = expandEnv(auth.Token)
	auth.Username = expandEnv(auth.Username)
	auth.Password = expandEnv(auth.Password)
	auth.Cookie = expandEnv(auth.Cookie)
	auth.HeaderName = expandEnv(auth.HeaderName)
	auth.HeaderValue = expandEnv(auth.HeaderValue)
	return auth
}

// WithYAMLConfigFile loads a YAML config file, applies the named profile
// (if any) before the file's own explicit values, and returns a built
// Config. This is the primary on-disk config entry point; WithConfigFile
// remains for the legacy JSON DTO shape.
func WithYAMLConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
		}
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var dto fileDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	seeds := make([]url.URL, 0, len(dto.SeedURLs))
	for _, s := range dto.SeedURLs {
		parsed, err := url.Parse(s)
		if err != nil {
			return Config{}, fmt.Errorf("%w: invalid seed url %q: %s", ErrInvalidConfig, s, err.Error())
		}
		seeds = append(seeds, *parsed)
	}
	if len(seeds) == 0 {
		return Config{}, fmt.Errorf("%w: seed_urls cannot be empty", ErrInvalidConfig)
	}

	builder := WithDefault(seeds)
	if dto.Profile != "" {
		builder = builder.ApplyProfile(Profile(dto.Profile))
	}

	if len(dto.AllowedHosts) > 0 {
		hosts := make(map[string]struct{}, len(dto.AllowedHosts))
		for _, h := range dto.AllowedHosts {
			hosts[h] = struct{}{}
		}
		builder = builder.WithAllowedHosts(hosts)
	}
	if len(dto.AllowedPathPrefix) > 0 {
		builder = builder.WithAllowedPathPrefix(dto.AllowedPathPrefix)
	}

	c := dto.Crawl
	if c.MaxPages != 0 {
		builder = builder.WithMaxPages(c.MaxPages)
	}
	if c.MaxDepth != 0 {
		builder = builder.WithMaxDepth(c.MaxDepth)
	}
	if c.MaxConcurrent != 0 {
		builder = builder.WithConcurrency(c.MaxConcurrent)
	}
	if c.RateLimit != 0 {
		builder = builder.WithBaseDelay(secondsToDuration(c.RateLimit))
	}
	if c.PerHostConcurrent != 0 {
		builder = builder.WithPerHostConcurrent(c.PerHostConcurrent)
	}
	if len(c.IncludePaths) > 0 {
		builder = builder.WithIncludePaths(c.IncludePaths)
	}
	if len(c.ExcludePaths) > 0 {
		builder = builder.WithExcludePaths(c.ExcludePaths)
	}
	builder = builder.WithJavascript(c.Javascript || builder.Javascript()).WithAdaptiveRateLimit(c.AdaptiveRateLimit || builder.AdaptiveRateLimit())

	cf := dto.ContentFilter
	if cf.Language != "" {
		builder = builder.WithLanguage(cf.Language)
	}
	if len(cf.ExcludeLanguages) > 0 {
		builder = builder.WithExcludeLanguages(cf.ExcludeLanguages)
	}
	builder = builder.WithDeduplicate(cf.Deduplicate || builder.Deduplicate()).WithStreamingDedup(cf.StreamingDedup || builder.StreamingDedup())
	if cf.MaxFileSize != "" {
		n, err := parseSizeField(cf.MaxFileSize)
		if err != nil {
			return Config{}, err
		}
		builder = builder.WithMaxFileSize(n)
	}
	if cf.MaxTotalSize != "" {
		n, err := parseSizeField(cf.MaxTotalSize)
		if err != nil {
			return Config{}, err
		}
		builder = builder.WithMaxTotalSize(n)
	}
	if len(cf.ExcludeSections) > 0 {
		builder = builder.WithExcludeSections(cf.ExcludeSections)
	}

	o := dto.Output
	if o.Directory != "" {
		builder = builder.WithOutputDir(o.Directory)
	}
	if o.Format != "" {
		format, err := ParseOutputFormat(o.Format)
		if err != nil {
			return Config{}, fmt.Errorf("%w: output.format %q", ErrInvalidConfig, o.Format)
		}
		builder = builder.WithOutputFormat(format)
	}
	if o.NamingStrategy != "" {
		strategy, err := ParseNamingStrategy(o.NamingStrategy)
		if err != nil {
			return Config{}, fmt.Errorf("%w: output.naming_strategy %q", ErrInvalidConfig, o.NamingStrategy)
		}
		builder = builder.WithNamingStrategy(strategy)
	}
	builder = builder.WithCreateIndex(o.CreateIndex || builder.CreateIndex()).WithRichMetadata(o.RichMetadata || builder.RichMetadata())

	n := dto.Network
	if n.Proxy != "" {
		builder = builder.WithProxy(n.Proxy)
	}
	if n.UserAgent != "" {
		builder = builder.WithUserAgent(n.UserAgent)
	}
	if n.MaxRetries != 0 {
		builder = builder.WithMaxAttempt(n.MaxRetries)
	}
	if n.ConnectTimeout != "" {
		d, err := parseDurationField(n.ConnectTimeout)
		if err != nil {
			return Config{}, err
		}
		builder = builder.WithConnectTimeout(d)
	}
	if n.ReadTimeout != "" {
		d, err := parseDurationField(n.ReadTimeout)
		if err != nil {
			return Config{}, err
		}
		builder = builder.WithReadTimeout(d)
	}

	a := dto.Auth
	authType, err := ParseAuthType(a.Type)
	if err != nil {
		return Config{}, fmt.Errorf("%w: auth.type %q", ErrInvalidConfig, a.Type)
	}
	builder = builder.WithAuth(expandAuthEnv(AuthConfig{
		Type:        authType,
		Token:       a.Token,
		Username:    a.Username,
		Password:    a.Password,
		Cookie:      a.Cookie,
		HeaderName:  a.HeaderName,
		HeaderValue: a.HeaderValue,
	}))

	ch := dto.Cache
	builder = builder.WithCacheEnabled(ch.Enabled || builder.CacheEnabled()).WithCacheSkipUnchanged(ch.SkipUnchanged || builder.CacheSkipUnchanged()).WithCacheResume(ch.Resume || builder.CacheResume())
	if ch.Directory != "" {
		builder = builder.WithCacheDirectory(ch.Directory)
	}
	if ch.TTLDays != 0 {
		builder = builder.WithCacheTTLDays(ch.TTLDays)
	}

	return builder.Build()
}
