package completion

import (
	"slices"

	"github.com/rlch/texlsp/analysis"
)

// Provider produces completion items for a request. Providers are stateless
// and may be called concurrently. A provider that does not apply returns nil.
type Provider interface {
	// Name identifies the provider in logs and in the config's disabled list.
	Name() string
	Items(req *Request) []Item
}

// Generator produces the items for a matched context. It must be pure and
// must not look at anything but the context.
type Generator func(ctx analysis.Context) []Item

// Static returns a generator yielding a fixed vocabulary. Each call returns
// a fresh copy, so callers may not alter the vocabulary.
func Static(items ...Item) Generator {
	vocabulary := slices.Clone(items)

	return func(analysis.Context) []Item {
		return slices.Clone(vocabulary)
	}
}

// ArgumentProvider offers items inside one argument of one command.
type ArgumentProvider struct {
	name     string
	trigger  Trigger
	generate Generator
}

// NewArgumentProvider creates a provider firing on trigger.
func NewArgumentProvider(name string, trigger Trigger, generate Generator) *ArgumentProvider {
	return &ArgumentProvider{name: name, trigger: trigger, generate: generate}
}

// Name returns the provider name.
func (p *ArgumentProvider) Name() string { return p.name }

// Trigger returns the provider's trigger.
func (p *ArgumentProvider) Trigger() Trigger { return p.trigger }

// Items scans the document, locates the cursor and generates items when the
// enclosing argument matches the trigger.
func (p *ArgumentProvider) Items(req *Request) []Item {
	ctx, ok := req.Context()
	if !ok || !p.trigger.Matches(ctx, req.Document.Language) {
		return nil
	}

	return p.generate(ctx)
}
