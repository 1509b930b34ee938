package routing

import (
	"errors"
	"fmt"

	"github.com/gpt-interface/gpt-interface-go/internal/provider"
)

// ErrUnknownModel is returned for a model that is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// Router maps models to providers. Models keep their registration order,
// which is the order the model selector shows them in.
type Router struct {
	models    []Model
	providers map[string]provider.Provider
}

func New() *Router {
	return &Router{providers: make(map[string]provider.Provider)}
}

// Register associates a model with a provider implementation.
// Registering the same model twice replaces its provider.
func (r *Router) Register(m Model, p provider.Provider) {
	if _, ok := r.providers[m.Name]; !ok {
		r.models = append(r.models, m)
	}
	r.providers[m.Name] = p
}

// ProviderFor returns the provider serving a model.
func (r *Router) ProviderFor(model string) (provider.Provider, error) {
	if p, ok := r.providers[model]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// Has reports whether model is in the catalog.
func (r *Router) Has(model string) bool {
	_, ok := r.providers[model]
	return ok
}

// Default is the first registered model, or the zero Model when the
// catalog is empty.
func (r *Router) Default() Model {
	if len(r.models) == 0 {
		return Model{}
	}
	return r.models[0]
}

func (r *Router) Models() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}
