// Package config holds the fixed limits and toolchain settings for a
// preview project. A Config is an immutable value passed explicitly into
// each component constructor, never ambient state, so tests can run with
// alternate limits.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config carries every tunable the core recognizes.
type Config struct {
	// Tree limits.
	MaxFileSize int // bytes per file
	MaxPathLen  int // bytes per canonical path
	MaxFiles    int // total file nodes (directories excluded)

	// Module resolution.
	AliasPrefix  string // project-root alias in import specifiers
	CDNBase      string // external package location prefix
	ReactVersion string // pinned framework version

	// Recognized extensions.
	SourceExts []string // executable component sources
	StyleExts  []string // aggregated stylesheets

	// Entry-point candidates, tried in order when no entry is active.
	EntryCandidates []string

	// Content types allowed for module materialization.
	ContentTypes []string
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		MaxFileSize:  256 * 1024,
		MaxPathLen:   512,
		MaxFiles:     256,
		AliasPrefix:  "@/",
		CDNBase:      "https://esm.sh/",
		ReactVersion: "18.3.1",
		SourceExts:   []string{".js", ".jsx", ".ts", ".tsx"},
		StyleExts:    []string{".css"},
		EntryCandidates: []string{
			"/App.jsx", "/App.tsx", "/App.js", "/App.ts",
			"/index.jsx", "/index.tsx", "/index.js",
			"/main.jsx", "/main.tsx",
		},
		ContentTypes: []string{"text/javascript", "text/css"},
	}
}

// fileConfig is the HCL override surface. Every attribute is optional;
// unset attributes keep their defaults.
type fileConfig struct {
	MaxFileSize  *int    `hcl:"max_file_size,optional"`
	MaxPathLen   *int    `hcl:"max_path_len,optional"`
	MaxFiles     *int    `hcl:"max_files,optional"`
	AliasPrefix  *string `hcl:"alias_prefix,optional"`
	CDNBase      *string `hcl:"cdn_base,optional"`
	ReactVersion *string `hcl:"react_version,optional"`
}

// Load reads an HCL override file and applies it on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var fc fileConfig
	if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if fc.MaxFileSize != nil {
		cfg.MaxFileSize = *fc.MaxFileSize
	}
	if fc.MaxPathLen != nil {
		cfg.MaxPathLen = *fc.MaxPathLen
	}
	if fc.MaxFiles != nil {
		cfg.MaxFiles = *fc.MaxFiles
	}
	if fc.AliasPrefix != nil {
		cfg.AliasPrefix = *fc.AliasPrefix
	}
	if fc.CDNBase != nil {
		cfg.CDNBase = *fc.CDNBase
	}
	if fc.ReactVersion != nil {
		cfg.ReactVersion = *fc.ReactVersion
	}

	return cfg, nil
}

// IsSourcePath reports whether path has a recognized component-source extension.
func (c Config) IsSourcePath(path string) bool {
	return hasAnySuffix(path, c.SourceExts)
}

// IsStylePath reports whether path has a recognized stylesheet extension.
func (c Config) IsStylePath(path string) bool {
	return hasAnySuffix(path, c.StyleExts)
}

// AllowsContentType reports whether ct may be materialized as a module.
func (c Config) AllowsContentType(ct string) bool {
	for _, allowed := range c.ContentTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if len(s) > len(suf) && s[len(s)-len(suf):] == suf {
			return true
		}
	}
	return false
}
