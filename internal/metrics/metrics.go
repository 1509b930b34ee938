package metrics

import (
	"sort"
	"sync"
)

// ModelUsage is a snapshot of the counters for one model.
type ModelUsage struct {
	Model     string `json:"model"`
	Requests  int    `json:"requests"`
	Turns     int    `json:"turns"`
	Fragments int    `json:"fragments"`
	Errors    int    `json:"errors"`
}

// Usage counts upstream activity per model.
type Usage struct {
	mu     sync.Mutex
	models map[string]*ModelUsage
}

func New() *Usage {
	return &Usage{models: make(map[string]*ModelUsage)}
}

func (u *Usage) entry(model string) *ModelUsage {
	m, ok := u.models[model]
	if !ok {
		m = &ModelUsage{Model: model}
		u.models[model] = m
	}
	return m
}

func (u *Usage) AddRequest(model string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entry(model).Requests++
}

func (u *Usage) AddFragment(model string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entry(model).Fragments++
}

func (u *Usage) AddTurn(model string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entry(model).Turns++
}

func (u *Usage) AddError(model string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entry(model).Errors++
}

// Snapshot returns the counters sorted by model name.
func (u *Usage) Snapshot() []ModelUsage {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]ModelUsage, 0, len(u.models))
	for _, m := range u.models {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}
