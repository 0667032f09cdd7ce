package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultSeedURL is the page the crawl starts from when none is given.
	DefaultSeedURL = "https://nearceleb.com"

	// DefaultOutputDir is the directory the mirror is written to.
	// It is relative to the working directory.
	DefaultOutputDir = "static"

	// DefaultWorkers bounds the number of pages processed at once.
	// 16 keeps a single host busy without opening hundreds of connections
	// on wide iterations.
	DefaultWorkers = 16

	// DefaultTimeout of zero leaves requests bounded only by the transport
	// and by cancellation of the crawl.
	DefaultTimeout time.Duration = 0

	// DefaultUserAgent identifies mirrorcrawl in HTTP requests.
	DefaultUserAgent = "mirrorcrawl/1.0 (+https://github.com/nao1215/mirrorcrawl)"

	// DefaultMaxBodySize is the largest response body accepted per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "mirrorcrawl"
)

// Report formats accepted by ReportFormat.
const (
	// ReportFormatText is the human-readable summary.
	ReportFormatText = "text"
	// ReportFormatMarkdown is GitHub Flavored Markdown.
	ReportFormatMarkdown = "markdown"
	// ReportFormatJSON is the machine-readable summary.
	ReportFormatJSON = "json"
)

// Config holds all options of a crawl.
// It is populated from CLI flags and the config file, then passed down
// explicitly rather than through global state.
//
// Design decision: a single flat struct, as the number of options is small.
type Config struct {
	// SeedURL is the absolute http(s) URL the crawl starts from.
	SeedURL string

	// TargetHost restricts link following to this host.
	// Empty means the seed's host.
	TargetHost string

	// OutputDir is the root of the mirrored tree.
	OutputDir string

	// Workers is the number of pages fetched concurrently.
	Workers int

	// Timeout bounds each HTTP request. Zero disables the client timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the largest response body accepted per page.
	// Larger pages fail and are not mirrored. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .mirrorcrawl is searched in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// ReportFormat selects the summary printed after the crawl:
	// "text", "markdown" or "json". Empty prints no summary.
	ReportFormat string

	// ReportFile is where the summary is written instead of stdout.
	ReportFile string

	// DBDir is the directory holding the crawl journal database.
	// Defaults to the XDG data directory (~/.local/share/mirrorcrawl on Linux).
	DBDir string

	// SaveToDB enables the crawl journal.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SeedURL:     DefaultSeedURL,
		OutputDir:   DefaultOutputDir,
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for mirrorcrawl.
// On Linux: ~/.local/share/mirrorcrawl
// On macOS: ~/Library/Application Support/mirrorcrawl
// On Windows: %LOCALAPPDATA%\mirrorcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mirrorcrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
//
// Design decision: validation happens once after flags and the config file
// are merged, so the crawl fails fast before any request is made.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeed
	}

	if c.OutputDir == "" {
		return ErrEmptyOutputDir
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch c.ReportFormat {
	case "", ReportFormatText, ReportFormatMarkdown, ReportFormatJSON:
	default:
		return ErrUnknownReportFormat
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrEmptyDBDir
	}

	return nil
}

// SiteConfig returns the file settings that apply to host.
// The zero SiteConfig is returned when no config file was loaded.
func (c *Config) SiteConfig(host string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(host)
}
