package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Initial pages to give to the crawler to begin discovering and traversing other pages.
	seedURLs []url.URL
	// Whitelisted hostname. If empty at Build time, it defaults to the seed URLs' hosts
	allowedHosts map[string]struct{}
	// Which URL path segments are permitted to be fetched and traversed, even if the links are on the same domain
	allowedPathPrefix []string

	//===============
	// Limits
	//===============
	// Maximum number of hyperlink hops from a seed (root) URL
	maxDepth int
	// Maximum number of total documents are allowed to be fetched
	maxPages int

	//===============
	// Politeness
	//===============
	// Maximum number of crawl worker goroutines processing URLs concurrently;
	// it does not control OS threads or CPU parallelism.
	concurrency int
	// Minimum, fixed waiting time you enforce between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	// Intentional randomness applied to timing.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Output
	//===============
	// Root directory in which to store the resulting markdown files
	outputDir string
	// Whether the program will simulates what it would do without
	// actually performing any irreversible or side-effecting actions
	dryRun bool

	//===============
	// Extraction
	//===============
	// BodySpecificityBias is the threshold for preferring a child container over <body>.
	// If a child node's score is >= BodySpecificityBias * bodyScore, the child is preferred.
	// Default: 0.75 (75%)
	bodySpecificityBias float64
	// LinkDensityThreshold is the maximum ratio of link text to total text before
	// applying a penalty. Higher values allow more link-heavy content.
	// Default: 0.80 (80%)
	linkDensityThreshold float64
	// ScoreMultiplierNonWhitespaceDivisor is the divisor for calculating text score.
	// Score gets +1 point per NonWhitespaceDivisor characters.
	// Default: 50.0
	scoreMultiplierNonWhitespaceDivisor float64
	// ScoreMultiplierParagraphs is the score multiplier for each paragraph element.
	// Default: 5.0
	scoreMultiplierParagraphs float64
	// ScoreMultiplierHeadings is the score multiplier for each heading element (h1-h3).
	// Default: 10.0
	scoreMultiplierHeadings float64
	// ScoreMultiplierCodeBlocks is the score multiplier for each code block.
	// Default: 15.0
	scoreMultiplierCodeBlocks float64
	// ScoreMultiplierListItems is the score multiplier for each list item.
	// Default: 2.0
	scoreMultiplierListItems float64
	// ThresholdMinNonWhitespace is the minimum number of non-whitespace characters
	// required for content to be considered meaningful.
	// Default: 50
	thresholdMinNonWhitespace int
	// ThresholdMinHeadings is the minimum number of headings required.
	// Headings are optional but valuable.
	// Default: 0
	thresholdMinHeadings int
	// ThresholdMinParagraphsOrCode is the minimum number of paragraphs OR code blocks
	// required for content to be considered meaningful.
	// Default: 1
	thresholdMinParagraphsOrCode int
	// ThresholdMaxLinkDensity is the maximum ratio of link text to total text before
	// content is considered navigation-only and rejected.
	// Default: 0.8 (80%)
	thresholdMaxLinkDensity float64

	//===============
	// Crawl scope (additional)
	//===============
	perHostConcurrent int
	includePaths      []string
	excludePaths      []string
	javascript        bool
	adaptiveRateLimit bool

	//===============
	// Content filter
	//===============
	language         string
	excludeLanguages []string
	deduplicate      bool
	streamingDedup   bool
	maxFileSize      int64
	maxTotalSize     int64
	excludeSections  []string

	//===============
	// Output (additional)
	//===============
	outputFormat   OutputFormat
	namingStrategy NamingStrategy
	createIndex    bool
	richMetadata   bool
	hashAlgo       hashutil.HashAlgo

	//===============
	// Network (additional)
	//===============
	proxy          string
	connectTimeout time.Duration
	readTimeout    time.Duration

	//===============
	// Auth
	//===============
	auth AuthConfig

	//===============
	// Cache
	//===============
	cacheEnabled      bool
	cacheDirectory    string
	cacheTTLDays      int
	cacheSkipUnchanged bool
	cacheResume       bool
}

type configDTO struct {
	SeedURLs               []url.URL           `json:"seedUrls"`
	AllowedHosts           map[string]struct{} `json:"allowedHosts,omitempty"`
	AllowedPathPrefix      []string            `json:"allowedPathPrefix,omitempty"`
	MaxDepth               int                 `json:"maxDepth,omitempty"`
	MaxPages               int                 `json:"maxPages,omitempty"`
	Concurrency            int                 `json:"concurrency,omitempty"`
	BaseDelay              time.Duration       `json:"baseDelay,omitempty"`
	Jitter                 time.Duration       `json:"jitter,omitempty"`
	RandomSeed             int64               `json:"randomSeed,omitempty"`
	MaxAttempt             int                 `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration       `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64             `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration       `json:"backoffMaxDuration,omitempty"`
	Timeout                time.Duration       `json:"timeout,omitempty"`
	UserAgent              string              `json:"userAgent,omitempty"`
	OutputDir              string              `json:"outputDir,omitempty"`
	DryRun                 bool                `json:"dryRun,omitempty"`
	// Extraction parameters
	BodySpecificityBias                 float64 `json:"bodySpecificityBias,omitempty"`
	LinkDensityThreshold                float64 `json:"linkDensityThreshold,omitempty"`
	ScoreMultiplierNonWhitespaceDivisor float64 `json:"scoreMultiplierNonWhitespaceDivisor,omitempty"`
	ScoreMultiplierParagraphs           float64 `json:"scoreMultiplierParagraphs,omitempty"`
	ScoreMultiplierHeadings             float64 `json:"scoreMultiplierHeadings,omitempty"`
	ScoreMultiplierCodeBlocks           float64 `json:"scoreMultiplierCodeBlocks,omitempty"`
	ScoreMultiplierListItems            float64 `json:"scoreMultiplierListItems,omitempty"`
	ThresholdMinNonWhitespace           int     `json:"thresholdMinNonWhitespace,omitempty"`
	ThresholdMinHeadings                int     `json:"thresholdMinHeadings,omitempty"`
	ThresholdMinParagraphsOrCode        int     `json:"thresholdMinParagraphsOrCode,omitempty"`
	ThresholdMaxLinkDensity             float64 `json:"thresholdMaxLinkDensity,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault(dto.SeedURLs).Build()
	if err != nil {
		return Config{}, err
	}

	// AllowedHosts can be empty - if so, default to seed URLs hostnames
	if len(dto.AllowedHosts) > 0 {
		cfg.allowedHosts = dto.AllowedHosts
	}

	// AllowedPathPrefix can be empty - always use DTO values
	cfg.allowedPathPrefix = dto.AllowedPathPrefix

	// For other fields, only override if non-zero value is provided
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}

	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.OutputDir != "" {
		cfg.outputDir = dto.OutputDir
	}
	// DryRun is a boolean, check if explicitly set (we use the DTO value as-is since bool zero value is false)
	cfg.dryRun = dto.DryRun

	// Extraction parameters - only override if non-zero value is provided
	// For float64, we check if value is not 0 (which is also the zero value)
	if dto.BodySpecificityBias != 0 {
		cfg.bodySpecificityBias = dto.BodySpecificityBias
	}
	if dto.LinkDensityThreshold != 0 {
		cfg.linkDensityThreshold = dto.LinkDensityThreshold
	}
	if dto.ScoreMultiplierNonWhitespaceDivisor != 0 {
		cfg.scoreMultiplierNonWhitespaceDivisor = dto.ScoreMultiplierNonWhitespaceDivisor
	}
	if dto.ScoreMultiplierParagraphs != 0 {
		cfg.scoreMultiplierParagraphs = dto.ScoreMultiplierParagraphs
	}
	if dto.ScoreMultiplierHeadings != 0 {
		cfg.scoreMultiplierHeadings = dto.ScoreMultiplierHeadings
	}
	if dto.ScoreMultiplierCodeBlocks != 0 {
		cfg.scoreMultiplierCodeBlocks = dto.ScoreMultiplierCodeBlocks
	}
	if dto.ScoreMultiplierListItems != 0 {
		cfg.scoreMultiplierListItems = dto.ScoreMultiplierListItems
	}
	if dto.ThresholdMinNonWhitespace != 0 {
		cfg.thresholdMinNonWhitespace = dto.ThresholdMinNonWhitespace
	}
	// Note: ThresholdMinHeadings can be 0 (which is a valid value), so we don't check for non-zero
	cfg.thresholdMinHeadings = dto.ThresholdMinHeadings
	if dto.ThresholdMinParagraphsOrCode != 0 {
		cfg.thresholdMinParagraphsOrCode = dto.ThresholdMinParagraphsOrCode
	}
	if dto.ThresholdMaxLinkDensity != 0 {
		cfg.thresholdMaxLinkDensity = dto.ThresholdMaxLinkDensity
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided seed URLs and default values for all other fields.
// seedUrls is mandatory and must not be empty - Build returns an error if it is.
func WithDefault(seedUrls []url.URL) *Config {
	defaultConfig := Config{
		seedURLs:     seedUrls,
		allowedHosts: map[string]struct{}{},
		allowedPathPrefix: []string{
			"/",
		},
		maxDepth:               3,
		maxPages:               100,
		concurrency:            10,
		baseDelay:              time.Second,
		jitter:                 time.Millisecond * 500,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             10,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		timeout:                time.Second * 10,
		userAgent:              "docs-crawler/1.0",
		outputDir:              "output",
		dryRun:                 false,
		// Extraction defaults
		bodySpecificityBias:                 0.75,
		linkDensityThreshold:                0.80,
		scoreMultiplierNonWhitespaceDivisor: 50.0,
		scoreMultiplierParagraphs:           5.0,
		scoreMultiplierHeadings:             10.0,
		scoreMultiplierCodeBlocks:           15.0,
		scoreMultiplierListItems:            2.0,
		thresholdMinNonWhitespace:           50,
		thresholdMinHeadings:                0,
		thresholdMinParagraphsOrCode:        1,
		thresholdMaxLinkDensity:             0.8,

		perHostConcurrent: 2,
		includePaths:      nil,
		excludePaths:      nil,
		javascript:        false,
		adaptiveRateLimit: false,

		language:         "",
		excludeLanguages: nil,
		deduplicate:      false,
		streamingDedup:   false,
		maxFileSize:      0,
		maxTotalSize:     0,
		excludeSections:  nil,

		outputFormat:   OutputFormatMarkdown,
		namingStrategy: NamingStrategyFull,
		createIndex:    false,
		richMetadata:   false,
		hashAlgo:       hashutil.HashAlgoSHA256,

		proxy:          "",
		connectTimeout: 10 * time.Second,
		readTimeout:    30 * time.Second,

		auth: AuthConfig{Type: AuthTypeNone},

		cacheEnabled:       false,
		cacheDirectory:     ".docs-crawler-cache",
		cacheTTLDays:       7,
		cacheSkipUnchanged: false,
		cacheResume:        false,
	}
	return &defaultConfig
}

// ApplyProfile seeds the named profile's defaults onto the builder. Call
// it immediately after WithDefault and before any explicit With* calls —
// profile values are overridden by whatever the caller sets afterward, so
// that explicit configuration always wins over a profile's defaults.
func (c *Config) ApplyProfile(profile Profile) *Config {
	switch profile {
	case ProfileRAG:
		c.streamingDedup = true
		c.createIndex = true
		c.richMetadata = true
		c.concurrency = 20
	case ProfileMirror:
		c.maxDepth = 10
		c.concurrency = 5
		c.namingStrategy = NamingStrategyHierarchical
		c.cacheEnabled = true
		c.cacheSkipUnchanged = true
	case ProfileQuick:
		c.maxPages = 50
		c.maxDepth = 2
		c.concurrency = 20
	case ProfileCustom, "":
		// no overrides
	}
	return c
}

func (c *Config) WithSeedUrls(urls []url.URL) *Config {
	c.seedURLs = urls
	return c
}

func (c *Config) WithAllowedHosts(hosts map[string]struct{}) *Config {
	c.allowedHosts = hosts
	return c
}

func (c *Config) WithAllowedPathPrefix(prefixes []string) *Config {
	c.allowedPathPrefix = prefixes
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) WithBodySpecificityBias(bias float64) *Config {
	c.bodySpecificityBias = bias
	return c
}

func (c *Config) WithLinkDensityThreshold(threshold float64) *Config {
	c.linkDensityThreshold = threshold
	return c
}

func (c *Config) WithScoreMultiplierNonWhitespaceDivisor(divisor float64) *Config {
	c.scoreMultiplierNonWhitespaceDivisor = divisor
	return c
}

func (c *Config) WithScoreMultiplierParagraphs(multiplier float64) *Config {
	c.scoreMultiplierParagraphs = multiplier
	return c
}

func (c *Config) WithScoreMultiplierHeadings(multiplier float64) *Config {
	c.scoreMultiplierHeadings = multiplier
	return c
}

func (c *Config) WithScoreMultiplierCodeBlocks(multiplier float64) *Config {
	c.scoreMultiplierCodeBlocks = multiplier
	return c
}

func (c *Config) WithScoreMultiplierListItems(multiplier float64) *Config {
	c.scoreMultiplierListItems = multiplier
	return c
}

func (c *Config) WithThresholdMinNonWhitespace(min int) *Config {
	c.thresholdMinNonWhitespace = min
	return c
}

func (c *Config) WithThresholdMinHeadings(min int) *Config {
	c.thresholdMinHeadings = min
	return c
}

func (c *Config) WithThresholdMinParagraphsOrCode(min int) *Config {
	c.thresholdMinParagraphsOrCode = min
	return c
}

func (c *Config) WithThresholdMaxLinkDensity(max float64) *Config {
	c.thresholdMaxLinkDensity = max
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.seedURLs) == 0 {
		return Config{}, fmt.Errorf("%w: seedUrls cannot be empty", ErrInvalidConfig)
	}
	if c.maxDepth < 1 {
		return Config{}, fmt.Errorf("%w: maxDepth must be >= 1", ErrInvalidConfig)
	}
	if c.maxPages < 0 {
		return Config{}, fmt.Errorf("%w: maxPages must be >= 0 (0 means none, null/unset means unlimited)", ErrInvalidConfig)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency (max_concurrent) must be >= 1", ErrInvalidConfig)
	}
	if c.perHostConcurrent < 1 {
		return Config{}, fmt.Errorf("%w: perHostConcurrent must be >= 1", ErrInvalidConfig)
	}
	if c.baseDelay < 0 {
		return Config{}, fmt.Errorf("%w: baseDelay (rate_limit) must be >= 0", ErrInvalidConfig)
	}

	// If allowedHosts is empty, default to seed URLs hostnames
	if len(c.allowedHosts) == 0 {
		c.allowedHosts = make(map[string]struct{})
		for _, u := range c.seedURLs {
			if u.Host != "" {
				c.allowedHosts[u.Host] = struct{}{}
			}
		}
	}

	return *c, nil
}

func (c Config) SeedURLs() []url.URL {
	urls := make([]url.URL, len(c.seedURLs))
	copy(urls, c.seedURLs)
	return urls
}

func (c Config) AllowedHosts() map[string]struct{} {
	hosts := make(map[string]struct{})
	for k, v := range c.allowedHosts {
		hosts[k] = v
	}
	return hosts
}

func (c Config) AllowedPathPrefix() []string {
	prefixes := make([]string, len(c.allowedPathPrefix))
	copy(prefixes, c.allowedPathPrefix)
	return prefixes
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) DryRun() bool {
	return c.dryRun
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) BodySpecificityBias() float64 {
	return c.bodySpecificityBias
}

func (c Config) LinkDensityThreshold() float64 {
	return c.linkDensityThreshold
}

func (c Config) ScoreMultiplierNonWhitespaceDivisor() float64 {
	return c.scoreMultiplierNonWhitespaceDivisor
}

func (c Config) ScoreMultiplierParagraphs() float64 {
	return c.scoreMultiplierParagraphs
}

func (c Config) ScoreMultiplierHeadings() float64 {
	return c.scoreMultiplierHeadings
}

func (c Config) ScoreMultiplierCodeBlocks() float64 {
	return c.scoreMultiplierCodeBlocks
}

func (c Config) ScoreMultiplierListItems() float64 {
	return c.scoreMultiplierListItems
}

func (c Config) ThresholdMinNonWhitespace() int {
	return c.thresholdMinNonWhitespace
}

func (c Config) ThresholdMinHeadings() int {
	return c.thresholdMinHeadings
}

func (c Config) ThresholdMinParagraphsOrCode() int {
	return c.thresholdMinParagraphsOrCode
}

func (c Config) ThresholdMaxLinkDensity() float64 {
	return c.thresholdMaxLinkDensity
}

//===============
// Crawl scope (additional) builders/getters
//===============

func (c *Config) WithPerHostConcurrent(n int) *Config {
	c.perHostConcurrent = n
	return c
}

func (c *Config) WithIncludePaths(patterns []string) *Config {
	c.includePaths = patterns
	return c
}

func (c *Config) WithExcludePaths(patterns []string) *Config {
	c.excludePaths = patterns
	return c
}

func (c *Config) WithJavascript(enabled bool) *Config {
	c.javascript = enabled
	return c
}

func (c *Config) WithAdaptiveRateLimit(enabled bool) *Config {
	c.adaptiveRateLimit = enabled
	return c
}

func (c Config) PerHostConcurrent() int { return c.perHostConcurrent }
func (c Config) IncludePaths() []string {
	out := make([]string, len(c.includePaths))
	copy(out, c.includePaths)
	return out
}
func (c Config) ExcludePaths() []string {
	out := make([]string, len(c.excludePaths))
	copy(out, c.excludePaths)
	return out
}
func (c Config) Javascript() bool        { return c.javascript }
func (c Config) AdaptiveRateLimit() bool { return c.adaptiveRateLimit }

//===============
// Content filter builders/getters
//===============

func (c *Config) WithLanguage(lang string) *Config {
	c.language = lang
	return c
}

func (c *Config) WithExcludeLanguages(langs []string) *Config {
	c.excludeLanguages = langs
	return c
}

func (c *Config) WithDeduplicate(enabled bool) *Config {
	c.deduplicate = enabled
	return c
}

func (c *Config) WithStreamingDedup(enabled bool) *Config {
	c.streamingDedup = enabled
	return c
}

func (c *Config) WithMaxFileSize(bytes int64) *Config {
	c.maxFileSize = bytes
	return c
}

func (c *Config) WithMaxTotalSize(bytes int64) *Config {
	c.maxTotalSize = bytes
	return c
}

func (c *Config) WithExcludeSections(patterns []string) *Config {
	c.excludeSections = patterns
	return c
}

func (c Config) Language() string           { return c.language }
func (c Config) ExcludeLanguages() []string {
	out := make([]string, len(c.excludeLanguages))
	copy(out, c.excludeLanguages)
	return out
}
func (c Config) Deduplicate() bool   { return c.deduplicate }
func (c Config) StreamingDedup() bool { return c.streamingDedup }
func (c Config) MaxFileSize() int64  { return c.maxFileSize }
func (c Config) MaxTotalSize() int64 { return c.maxTotalSize }
func (c Config) ExcludeSections() []string {
	out := make([]string, len(c.excludeSections))
	copy(out, c.excludeSections)
	return out
}

//===============
// Output (additional) builders/getters
//===============

func (c *Config) WithOutputFormat(format OutputFormat) *Config {
	c.outputFormat = format
	return c
}

func (c *Config) WithNamingStrategy(strategy NamingStrategy) *Config {
	c.namingStrategy = strategy
	return c
}

func (c *Config) WithCreateIndex(enabled bool) *Config {
	c.createIndex = enabled
	return c
}

func (c *Config) WithRichMetadata(enabled bool) *Config {
	c.richMetadata = enabled
	return c
}

func (c Config) OutputFormat() OutputFormat     { return c.outputFormat }
func (c Config) NamingStrategy() NamingStrategy { return c.namingStrategy }
func (c Config) CreateIndex() bool              { return c.createIndex }
func (c Config) RichMetadata() bool             { return c.richMetadata }
func (c Config) HashAlgo() hashutil.HashAlgo    { return c.hashAlgo }

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

//===============
// Network (additional) builders/getters
//===============

func (c *Config) WithProxy(proxy string) *Config {
	c.proxy = proxy
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.connectTimeout = d
	return c
}

func (c *Config) WithReadTimeout(d time.Duration) *Config {
	c.readTimeout = d
	return c
}

func (c Config) Proxy() string                { return c.proxy }
func (c Config) ConnectTimeout() time.Duration { return c.connectTimeout }
func (c Config) ReadTimeout() time.Duration    { return c.readTimeout }

//===============
// Auth builders/getters
//===============

// WithAuth sets the auth configuration as given; it does no environment
// variable expansion itself. WithYAMLConfigFile expands references with
// expandAuthEnv before calling it.
func (c *Config) WithAuth(auth AuthConfig) *Config {
	c.auth = auth
	return c
}

func (c Config) Auth() AuthConfig { return c.auth }

//===============
// Cache builders/getters
//===============

func (c *Config) WithCacheEnabled(enabled bool) *Config {
	c.cacheEnabled = enabled
	return c
}

func (c *Config) WithCacheDirectory(dir string) *Config {
	c.cacheDirectory = dir
	return c
}

func (c *Config) WithCacheTTLDays(days int) *Config {
	c.cacheTTLDays = days
	return c
}

func (c *Config) WithCacheSkipUnchanged(enabled bool) *Config {
	c.cacheSkipUnchanged = enabled
	return c
}

func (c *Config) WithCacheResume(enabled bool) *Config {
	c.cacheResume = enabled
	return c
}

func (c Config) CacheEnabled() bool       { return c.cacheEnabled }
func (c Config) CacheDirectory() string   { return c.cacheDirectory }
func (c Config) CacheTTLDays() int        { return c.cacheTTLDays }
func (c Config) CacheSkipUnchanged() bool { return c.cacheSkipUnchanged }
func (c Config) CacheResume() bool        { return c.cacheResume }
