package completion

import (
	"slices"

	"go.uber.org/zap"
)

// Dispatcher is the single entry point for completion. It holds an immutable
// list of providers, fixed at construction.
type Dispatcher struct {
	providers []Provider
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher over providers. A nil logger disables logging.
func NewDispatcher(logger *zap.Logger, providers ...Provider) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		providers: slices.Clone(providers),
		logger:    logger,
	}
}

// Items asks every provider in registration order and concatenates their
// items. The result is never nil; an empty slice means no completion applies.
func (d *Dispatcher) Items(req *Request) []Item {
	items := make([]Item, 0)

	for _, p := range d.providers {
		got := p.Items(req)
		if len(got) == 0 {
			continue
		}

		d.logger.Debug("Provider matched",
			zap.String("provider", p.Name()),
			zap.String("uri", req.Document.URI),
			zap.Uint32("line", req.Line),
			zap.Uint32("character", req.Char),
			zap.Int("items", len(got)))

		items = append(items, got...)
	}

	return items
}

// Providers returns the names of the registered providers in order.
func (d *Dispatcher) Providers() []string {
	names := make([]string, 0, len(d.providers))
	for _, p := range d.providers {
		names = append(names, p.Name())
	}

	return names
}
