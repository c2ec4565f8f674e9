package completion

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/rlch/texlsp"
)

// Builtin returns the built-in providers in registration order.
func Builtin() []Provider {
	providers := ColorModelProviders()
	providers = append(providers, NewEntryTypeProvider())

	return providers
}

// FromConfig builds a dispatcher from the built-in providers, minus the ones
// the config disables, followed by the configured vocabularies. A nil config
// yields the built-ins only.
func FromConfig(cfg *texlsp.Config, logger *zap.Logger) (*Dispatcher, error) {
	if cfg == nil {
		return NewDispatcher(logger, Builtin()...), nil
	}

	var providers []Provider

	for _, p := range Builtin() {
		if slices.Contains(cfg.Completion.Disabled, p.Name()) {
			continue
		}

		providers = append(providers, p)
	}

	for i, v := range cfg.Completion.Vocabularies {
		p, err := NewVocabularyProvider(v)
		if err != nil {
			return nil, fmt.Errorf("vocabularies[%d]: %w", i, err)
		}

		providers = append(providers, p)
	}

	return NewDispatcher(logger, providers...), nil
}

// NewVocabularyProvider turns a configured vocabulary into an argument
// provider. Without explicit languages the vocabulary applies to LaTeX.
func NewVocabularyProvider(v texlsp.VocabularyConfig) (*ArgumentProvider, error) {
	langs := make([]texlsp.Language, 0, len(v.Languages))

	for _, name := range v.Languages {
		l, err := texlsp.ParseLanguage(name)
		if err != nil {
			return nil, err
		}

		langs = append(langs, l)
	}

	if len(langs) == 0 {
		langs = append(langs, texlsp.LanguageLatex)
	}

	kind := texlsp.GroupBrace
	if v.Optional {
		kind = texlsp.GroupBracket
	}

	items := make([]Item, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, Item{
			Label:      it.Label,
			Detail:     it.Detail,
			InsertText: it.Insert,
			Kind:       ItemKindValue,
		})
	}

	name := v.Name
	if name == "" {
		name = v.Command
	}

	trigger := Trigger{
		Command:   v.Command,
		Kind:      kind,
		Argument:  v.Argument,
		Languages: texlsp.NewLanguageSet(langs...),
	}

	return NewArgumentProvider(name, trigger, Static(items...)), nil
}
