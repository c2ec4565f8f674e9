package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/completion"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()

	names := completion.NewDispatcher(nil, completion.Builtin()...).Providers()

	require.NotEmpty(t, names)
	assert.Equal(t, completion.ColorModelProviderName, names[0])
	assert.Equal(t, completion.EntryTypeProviderName, names[len(names)-1])
}

func TestFromConfig_Nil(t *testing.T) {
	t.Parallel()

	d, err := completion.FromConfig(nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, completion.NewDispatcher(nil, completion.Builtin()...).Providers(), d.Providers())
}

func TestFromConfig_Disabled(t *testing.T) {
	t.Parallel()

	cfg := &texlsp.Config{Completion: texlsp.CompletionConfig{
		Disabled: []string{completion.ColorModelProviderName},
	}}

	d, err := completion.FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{completion.EntryTypeProviderName}, d.Providers())

	doc := texlsp.NewDocument("main.tex", "\\definecolorset\n{}", texlsp.LanguageLatex)
	assert.Empty(t, d.Items(completion.NewRequest(doc, 1, 1)))
}

func TestFromConfig_Vocabularies(t *testing.T) {
	t.Parallel()

	cfg := &texlsp.Config{Completion: texlsp.CompletionConfig{
		Vocabularies: []texlsp.VocabularyConfig{
			{
				Name:     "anchors",
				Command:  `\anchor`,
				Argument: 0,
				Items: []texlsp.ItemConfig{
					{Label: "north", Detail: "top edge"},
					{Label: "south", Insert: "south west"},
				},
			},
			{
				Command:  `\cite`,
				Optional: true,
				Items:    []texlsp.ItemConfig{{Label: "p. 1"}},
			},
			{
				Command:   `\field`,
				Languages: []string{"bibtex"},
				Items:     []texlsp.ItemConfig{{Label: "title"}},
			},
		},
	}}

	d, err := completion.FromConfig(cfg, nil)
	require.NoError(t, err)

	names := d.Providers()
	assert.Equal(t, []string{"anchors", `\cite`, `\field`}, names[len(names)-3:])

	tests := []struct {
		name string
		lang texlsp.Language
		text string
		char uint32
		want []string
	}{
		{name: "brace vocabulary", lang: texlsp.LanguageLatex, text: `\anchor{}`, char: 8, want: []string{"north", "south"}},
		{name: "optional vocabulary", lang: texlsp.LanguageLatex, text: `\cite[]{key}`, char: 6, want: []string{"p. 1"}},
		{name: "optional vocabulary ignores braces", lang: texlsp.LanguageLatex, text: `\cite{}`, char: 6},
		{name: "latex by default", lang: texlsp.LanguageBibtex, text: `\anchor{}`, char: 8},
		{name: "explicit language", lang: texlsp.LanguageBibtex, text: `\field{}`, char: 7, want: []string{"title"}},
		{name: "explicit language excludes latex", lang: texlsp.LanguageLatex, text: `\field{}`, char: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := texlsp.NewDocument("doc", tt.text, tt.lang)
			items := d.Items(completion.NewRequest(doc, 0, tt.char))

			if len(tt.want) == 0 {
				assert.Empty(t, items)

				return
			}

			assert.Equal(t, tt.want, labels(items))
		})
	}
}

func TestNewVocabularyProvider(t *testing.T) {
	t.Parallel()

	p, err := completion.NewVocabularyProvider(texlsp.VocabularyConfig{
		Command:  `\anchor`,
		Argument: 2,
		Items:    []texlsp.ItemConfig{{Label: "south", Detail: "bottom", Insert: "south west"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `\anchor`, p.Name())

	trigger := p.Trigger()
	assert.Equal(t, texlsp.GroupBrace, trigger.Kind)
	assert.Equal(t, 2, trigger.Argument)
	assert.True(t, trigger.Languages.Has(texlsp.LanguageLatex))
	assert.False(t, trigger.Languages.Has(texlsp.LanguageBibtex))

	doc := texlsp.NewDocument("x.tex", `\anchor{}{}{}`, texlsp.LanguageLatex)
	items := p.Items(completion.NewRequest(doc, 0, 12))
	require.Len(t, items, 1)
	assert.Equal(t, completion.Item{
		Label:      "south",
		Detail:     "bottom",
		InsertText: "south west",
		Kind:       completion.ItemKindValue,
	}, items[0])

	_, err = completion.NewVocabularyProvider(texlsp.VocabularyConfig{Command: `\x`, Languages: []string{"rst"}})
	require.ErrorIs(t, err, texlsp.ErrUnknownLanguage)
}

func TestFromConfig_InvalidVocabulary(t *testing.T) {
	t.Parallel()

	cfg := &texlsp.Config{Completion: texlsp.CompletionConfig{
		Vocabularies: []texlsp.VocabularyConfig{{Command: `\x`, Languages: []string{"rst"}}},
	}}

	_, err := completion.FromConfig(cfg, nil)
	require.ErrorIs(t, err, texlsp.ErrUnknownLanguage)
}
