package importer

import (
	"sync"

	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/document"
)

// Templates resolves workflow template names to loaded rulesets, caching
// each ruleset after its first load. Safe for use from the task queue
// worker and a manual import at once.
type Templates struct {
	cfg *config.Config

	mu    sync.Mutex
	cache map[string]*document.Ruleset
}

// NewTemplates returns a resolver over the configured templates.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg, cache: make(map[string]*document.Ruleset)}
}

// Resolve loads the ruleset of a named workflow template.
func (t *Templates) Resolve(name string) (*document.Ruleset, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.cache[name]; ok {
		return r, nil
	}

	tpl, err := t.cfg.Template(name)
	if err != nil {
		return nil, err
	}
	r, err := document.LoadRuleset(tpl.Ruleset)
	if err != nil {
		return nil, err
	}

	t.cache[name] = r
	return r, nil
}
