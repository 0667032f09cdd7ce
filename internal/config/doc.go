// Package config provides the configuration of a crawl: built-in defaults,
// validation, the optional .mirrorcrawl YAML file with per-host settings,
// and the XDG directories used for the crawl journal.
package config
