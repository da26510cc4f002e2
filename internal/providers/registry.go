// Package providers wires every known adapter into an engine. Providers in
// the credential store without an adapter here fall back to the
// "unsupported" path.
package providers

import (
	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/providers/antigravity"
	"github.com/glancelabs/quotaglance/internal/providers/claude"
	"github.com/glancelabs/quotaglance/internal/providers/codex"
)

func RegisterAll(e *core.Engine) {
	e.Register(claude.New())
	e.Register(antigravity.New())
	e.Register(codex.New())
}
