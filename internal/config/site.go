package config

import "maps"

// SiteConfig holds crawl settings for a single host.
type SiteConfig struct {
	// Cookie is sent as the Cookie header on every request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent on every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Workers overrides the worker count for this host.
	// If zero, the global value is used.
	Workers int `yaml:"workers,omitempty"`

	// UserAgent overrides the User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .mirrorcrawl configuration file.
type File struct {
	// Sites maps host names (with port, if any) to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the settings for host, merged over the defaults.
// Headers are merged key by key; other fields are replaced when set.
// The returned value never aliases the maps held by cf.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	site, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.Workers != 0 {
		result.Workers = site.Workers
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}

	return result
}
