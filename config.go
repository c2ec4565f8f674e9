package texlsp

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config represents the .texlsp.yaml configuration file.
type Config struct {
	// Per-pattern language overrides, checked before file extensions.
	Files []FileConfig `koanf:"files"`

	// Newline policy per language name: true allows a single line break
	// between a command and its arguments.
	Newlines map[string]bool `koanf:"newlines"`

	Completion CompletionConfig `koanf:"completion"`

	Log LogConfig `koanf:"log"`
}

// FileConfig maps a glob pattern to a language.
type FileConfig struct {
	Pattern  string `koanf:"pattern"`
	Language string `koanf:"language"`
}

// CompletionConfig holds completion settings.
type CompletionConfig struct {
	// Names of built-in providers to turn off.
	Disabled []string `koanf:"disabled"`

	// Static vocabularies offered inside a command argument.
	Vocabularies []VocabularyConfig `koanf:"vocabularies"`
}

// VocabularyConfig declares a fixed list of items for one command argument.
type VocabularyConfig struct {
	Name      string       `koanf:"name"`
	Command   string       `koanf:"command"`
	Argument  int          `koanf:"argument"`
	Optional  bool         `koanf:"optional"` // count [] arguments instead of {}
	Languages []string     `koanf:"languages"`
	Items     []ItemConfig `koanf:"items"`
}

// ItemConfig is a single configured completion item.
type ItemConfig struct {
	Label  string `koanf:"label"`
	Detail string `koanf:"detail"`
	Insert string `koanf:"insert"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"`
}

// DefaultConfigNames are the filenames we search for, in order of preference.
var DefaultConfigNames = []string{".texlsp.yaml", ".texlsp.yml", ".texlsp.toml", ".texlsp.json"}

// LoadConfig finds and loads the nearest config file walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. The format is chosen
// by extension.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig parses config data in the format named by ext (".yaml",
// ".yml", ".toml" or ".json").
func ParseConfig(data []byte, ext string) (*Config, error) {
	var parser koanf.Parser

	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}

	k := koanf.New(".")

	err := k.Load(rawbytes.Provider(data), parser)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks language names and vocabulary declarations.
func (c *Config) Validate() error {
	for _, f := range c.Files {
		_, err := ParseLanguage(f.Language)
		if err != nil {
			return fmt.Errorf("files[%s]: %w", f.Pattern, err)
		}
	}

	seen := make(map[Language]string, len(c.Newlines))

	for _, name := range slices.Sorted(maps.Keys(c.Newlines)) {
		lang, err := ParseLanguage(name)
		if err != nil {
			return fmt.Errorf("newlines: %w", err)
		}

		if prev, ok := seen[lang]; ok {
			return fmt.Errorf("newlines: %q and %q both set %s", prev, name, lang)
		}

		seen[lang] = name
	}

	for i, v := range c.Completion.Vocabularies {
		if !strings.HasPrefix(v.Command, `\`) || len(v.Command) < 2 {
			return fmt.Errorf("vocabularies[%d]: command %q must start with a backslash", i, v.Command)
		}

		if v.Argument < 0 {
			return fmt.Errorf("vocabularies[%d]: argument must not be negative", i)
		}

		for _, l := range v.Languages {
			_, err := ParseLanguage(l)
			if err != nil {
				return fmt.Errorf("vocabularies[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// LanguageFor returns the language of a file path. Configured patterns are
// matched against the base name and the full path before the extension table.
func (c *Config) LanguageFor(path string) (Language, error) {
	if c != nil {
		for _, f := range c.Files {
			matchedBase, _ := filepath.Match(f.Pattern, filepath.Base(path))
			matchedFull, _ := filepath.Match(f.Pattern, path)

			if matchedBase || matchedFull {
				return ParseLanguage(f.Language)
			}
		}
	}

	return LanguageFromPath(path)
}

// ScanOptions returns the scan options for lang, applying the configured
// newline policy. When several names alias lang, the first in sorted order
// wins.
func (c *Config) ScanOptions(lang Language) ScanOptions {
	opts := DefaultScanOptions(lang)
	if c == nil {
		return opts
	}

	for _, name := range slices.Sorted(maps.Keys(c.Newlines)) {
		l, err := ParseLanguage(name)
		if err != nil || l != lang {
			continue
		}

		if c.Newlines[name] {
			opts.Newlines = NewlineAllowed
		} else {
			opts.Newlines = NewlineForbidden
		}

		break
	}

	return opts
}
