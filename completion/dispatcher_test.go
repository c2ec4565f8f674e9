package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rlch/texlsp"
	"github.com/rlch/texlsp/analysis"
	"github.com/rlch/texlsp/completion"
)

// fakeProvider returns fixed items and counts calls.
type fakeProvider struct {
	name  string
	items []completion.Item
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Items(*completion.Request) []completion.Item {
	p.calls++

	return p.items
}

func TestTrigger_Matches(t *testing.T) {
	t.Parallel()

	trigger := completion.Trigger{
		Command:   `\definecolor`,
		Kind:      texlsp.GroupBrace,
		Argument:  1,
		Languages: texlsp.NewLanguageSet(texlsp.LanguageLatex),
	}

	match := analysis.Context{Command: `\definecolor`, Kind: texlsp.GroupBrace, Argument: 1}

	tests := []struct {
		name string
		ctx  analysis.Context
		lang texlsp.Language
		want bool
	}{
		{name: "exact", ctx: match, lang: texlsp.LanguageLatex, want: true},
		{name: "wrong language", ctx: match, lang: texlsp.LanguageBibtex},
		{name: "unknown language", ctx: match, lang: 0},
		{name: "wrong command", ctx: analysis.Context{Command: `\definecolorset`, Argument: 1}, lang: texlsp.LanguageLatex},
		{name: "command case", ctx: analysis.Context{Command: `\DefineColor`, Argument: 1}, lang: texlsp.LanguageLatex},
		{name: "wrong argument", ctx: analysis.Context{Command: `\definecolor`, Argument: 0}, lang: texlsp.LanguageLatex},
		{name: "wrong kind", ctx: analysis.Context{Command: `\definecolor`, Kind: texlsp.GroupBracket, Argument: 1}, lang: texlsp.LanguageLatex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, trigger.Matches(tt.ctx, tt.lang))
		})
	}

	assert.Equal(t, `\definecolor brace#1 {latex}`, trigger.String())
}

func TestDispatcher_Order(t *testing.T) {
	t.Parallel()

	a := &fakeProvider{name: "a", items: []completion.Item{{Label: "a1"}, {Label: "a2"}}}
	none := &fakeProvider{name: "none"}
	b := &fakeProvider{name: "b", items: []completion.Item{{Label: "b1"}}}

	d := completion.NewDispatcher(zap.NewNop(), a, none, b)
	doc := texlsp.NewDocument("x.tex", "", texlsp.LanguageLatex)

	items := d.Items(completion.NewRequest(doc, 0, 0))
	assert.Equal(t, []string{"a1", "a2", "b1"}, labels(items))
	assert.Equal(t, []string{"a", "none", "b"}, d.Providers())
	assert.Equal(t, 1, none.calls)
}

func TestDispatcher_Empty(t *testing.T) {
	t.Parallel()

	d := completion.NewDispatcher(nil)
	doc := texlsp.NewDocument("x.tex", `\definecolorset{}`, texlsp.LanguageLatex)

	items := d.Items(completion.NewRequest(doc, 0, 16))
	require.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, d.Providers())
}

func TestDispatcher_ProvidersFixedAtConstruction(t *testing.T) {
	t.Parallel()

	providers := []completion.Provider{&fakeProvider{name: "a"}}
	d := completion.NewDispatcher(nil, providers...)

	providers[0] = &fakeProvider{name: "replaced"}

	assert.Equal(t, []string{"a"}, d.Providers())
}

func TestDispatcher_LogsMatches(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	d := completion.NewDispatcher(zap.New(core), completion.Builtin()...)

	doc := texlsp.NewDocument("main.tex", "\\definecolorset\n{}", texlsp.LanguageLatex)
	d.Items(completion.NewRequest(doc, 1, 1))

	entries := logs.FilterMessage("Provider matched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, completion.ColorModelProviderName, entries[0].ContextMap()["provider"])
	assert.Equal(t, int64(len(completion.ColorModels())), entries[0].ContextMap()["items"])
}

func TestStatic_ReturnsCopies(t *testing.T) {
	t.Parallel()

	source := []completion.Item{{Label: "x"}}
	generate := completion.Static(source...)

	source[0].Label = "mutated"

	first := generate(analysis.Context{})
	first[0].Label = "changed"

	assert.Equal(t, "x", generate(analysis.Context{})[0].Label)
}

func TestArgumentProvider(t *testing.T) {
	t.Parallel()

	var seen analysis.Context

	p := completion.NewArgumentProvider("units", completion.Trigger{
		Command:   `\setlength`,
		Kind:      texlsp.GroupBrace,
		Argument:  1,
		Languages: texlsp.NewLanguageSet(texlsp.LanguageLatex),
	}, func(ctx analysis.Context) []completion.Item {
		seen = ctx

		return []completion.Item{{Label: "pt"}}
	})

	doc := texlsp.NewDocument("x.tex", `\setlength{\parindent}{1}`, texlsp.LanguageLatex)

	assert.Equal(t, "units", p.Name())
	assert.Nil(t, p.Items(completion.NewRequest(doc, 0, 12)))

	items := p.Items(completion.NewRequest(doc, 0, 24))
	assert.Equal(t, []string{"pt"}, labels(items))
	assert.Equal(t, `\setlength`, seen.Command)
	assert.Equal(t, 1, seen.Argument)
}

func TestItem_Text(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rgb", completion.Item{Label: "rgb"}.Text())
	assert.Equal(t, "{rgb}", completion.Item{Label: "rgb", InsertText: "{rgb}"}.Text())
	assert.Equal(t, "enum-member", completion.ItemKindEnumMember.String())
	assert.Equal(t, "text", completion.ItemKindText.String())
}
