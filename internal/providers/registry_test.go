package providers

import (
	"testing"

	"github.com/glancelabs/quotaglance/internal/core"
)

func TestRegisterAll(t *testing.T) {
	e := core.NewEngine(nil)
	RegisterAll(e)
	for _, id := range []string{"claude", "antigravity", "codex"} {
		p, ok := e.Provider(id)
		if !ok {
			t.Errorf("provider %q not registered", id)
			continue
		}
		if p.ID() != id {
			t.Errorf("provider registered under %q reports ID %q", id, p.ID())
		}
	}
}
