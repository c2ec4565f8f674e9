package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/completion"
)

var sampleItems = []completion.Item{
	{Label: "rgb", Detail: "red, green, blue", Kind: completion.ItemKindEnumMember},
	{Label: "HTML", Kind: completion.ItemKindEnumMember},
	{Label: "tight", InsertText: "tight=true", Kind: completion.ItemKindValue},
}

func TestWriteItems_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, sampleItems, formatJSON, false))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, map[string]string{"label": "rgb", "detail": "red, green, blue", "kind": "enum-member"}, got[0])
	assert.Equal(t, map[string]string{"label": "HTML", "kind": "enum-member"}, got[1])
	assert.Equal(t, "tight=true", got[2]["insert"])
}

func TestWriteItems_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, sampleItems, formatYAML, false))

	var got []itemOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, itemOutput{Label: "rgb", Detail: "red, green, blue", Kind: "enum-member"}, got[0])
	assert.Equal(t, "value", got[2].Kind)
}

func TestWriteItems_EmptyJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, nil, formatJSON, false))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteItems_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, sampleItems, formatText, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "rgb"))
	assert.Contains(t, lines[0], "red, green, blue")
	assert.Equal(t, "HTML", strings.TrimSpace(lines[1]))
}

func TestWriteItems_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := writeItems(&bytes.Buffer{}, sampleItems, "xml", false)
	require.ErrorIs(t, err, errUnknownFormat)
}

func TestResolveLanguage(t *testing.T) {
	t.Parallel()

	cfg := &texlsp.Config{Files: []texlsp.FileConfig{{Pattern: "*.bbx", Language: "bibtex"}}}

	tests := []struct {
		name    string
		cfg     *texlsp.Config
		flag    string
		path    string
		want    texlsp.Language
		wantErr bool
	}{
		{name: "flag wins", cfg: cfg, flag: "bibtex", path: "main.tex", want: texlsp.LanguageBibtex},
		{name: "extension", path: "main.tex", want: texlsp.LanguageLatex},
		{name: "configured pattern", cfg: cfg, path: "style.bbx", want: texlsp.LanguageBibtex},
		{name: "unknown extension", path: "notes.txt", wantErr: true},
		{name: "bad flag", flag: "markdown", path: "main.tex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveLanguage(tt.cfg, tt.flag, tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, texlsp.ErrUnknownLanguage)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "chapters")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	data := "completion:\n  disabled: [entry-type]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".texlsp.yaml"), []byte(data), 0o600))

	cfg, err := loadConfig("", sub)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"entry-type"}, cfg.Completion.Disabled)

	explicit, err := loadConfig(filepath.Join(dir, ".texlsp.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, cfg, explicit)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	require.Error(t, err)
}
