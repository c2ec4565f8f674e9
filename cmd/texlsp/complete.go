package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/completion"
)

var (
	errNoFile          = errors.New("expected exactly one file argument")
	errUnknownFormat   = errors.New("unknown output format")
	errUnknownLanguage = errors.New("cannot determine document language, use --language")
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Print the completion items at a position in a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.Uint32Flag{
				Name:    "line",
				Aliases: []string{"l"},
				Usage:   "0-based line of the cursor",
			},
			&cli.Uint32Flag{
				Name:    "character",
				Aliases: []string{"ch"},
				Usage:   "0-based UTF-16 column of the cursor",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "document language (latex or bibtex); inferred from the file name by default",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "output format (text, json, yaml)",
			},
		},
		Action: runComplete,
	}
}

func runComplete(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errNoFile
	}

	path := cmd.Args().First()

	format := cmd.String("format")
	if format != formatText && format != formatJSON && format != formatYAML {
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := loadConfig(cmd.String("config"), filepath.Dir(path))
	if err != nil {
		return err
	}

	lang, err := resolveLanguage(cfg, cmd.String("language"), path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path comes from user args
	if err != nil {
		return err
	}

	dispatcher, err := completion.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	doc := texlsp.NewDocument(path, string(data), lang)
	req := completion.NewRequestWithOptions(doc, cmd.Uint32("line"), cmd.Uint32("character"), cfg.ScanOptions(lang))

	return writeItems(os.Stdout, dispatcher.Items(req), format, isTerminal(os.Stdout))
}

// loadConfig loads the explicit config path, or the nearest config above dir.
// A missing config is not an error.
func loadConfig(path, dir string) (*texlsp.Config, error) {
	if path != "" {
		return texlsp.LoadConfigFile(path)
	}

	cfg, err := texlsp.LoadConfig(dir)
	if errors.Is(err, texlsp.ErrConfigNotFound) {
		return nil, nil //nolint:nilnil // no config means built-in defaults
	}

	return cfg, err
}

func resolveLanguage(cfg *texlsp.Config, name, path string) (texlsp.Language, error) {
	if name != "" {
		return texlsp.ParseLanguage(name)
	}

	lang, err := cfg.LanguageFor(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errUnknownLanguage, err)
	}

	return lang, nil
}

// itemOutput is the serialized form of an item.
type itemOutput struct {
	Label  string `json:"label"            yaml:"label"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Insert string `json:"insert,omitempty" yaml:"insert,omitempty"`
	Kind   string `json:"kind"             yaml:"kind"`
}

func writeItems(w io.Writer, items []completion.Item, format string, color bool) error {
	out := make([]itemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, itemOutput{
			Label:  item.Label,
			Detail: item.Detail,
			Insert: item.InsertText,
			Kind:   item.Kind.String(),
		})
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(out)

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd // two-space indent

		err := enc.Encode(out)
		if err != nil {
			return err
		}

		return enc.Close()

	case formatText:
		return writeText(w, items, newStyles(color))

	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func writeText(w io.Writer, items []completion.Item, st *styles) error {
	width := 0
	for _, item := range items {
		width = max(width, len(item.Label))
	}

	for _, item := range items {
		line := st.Label.Render(fmt.Sprintf("%-*s", width, item.Label))
		if item.Detail != "" {
			line += "  " + st.Detail.Render(item.Detail)
		}

		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return err
		}
	}

	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
