package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Engine fans a refresh out to every configured provider concurrently and
// collects the results in a stable order.
type Engine struct {
	mu        sync.RWMutex
	providers map[string]Provider
	log       *logrus.Logger
}

func NewEngine(log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		providers: make(map[string]Provider),
		log:       log,
	}
}

func (e *Engine) Register(p Provider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.providers[p.ID()] = p
}

// Provider returns the registered adapter for id, if any.
func (e *Engine) Provider(id string) (Provider, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.providers[id]
	return p, ok
}

// FetchAll queries every credentialed provider in parallel, one goroutine
// per account. Results come back ordered by provider ID regardless of which
// fetch finishes first. A provider with no registered adapter yields a
// KindUnsupported result; fetch failures surface as KindError results, so
// the returned slice always has one entry per credential.
func (e *Engine) FetchAll(ctx context.Context, creds map[string]Credential) []AdapterResult {
	ids := lo.Keys(creds)
	sort.Strings(ids)

	results := make([]AdapterResult, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string, cred Credential) {
			defer wg.Done()
			results[i] = e.fetchOne(ctx, id, cred)
		}(i, id, creds[id])
	}
	wg.Wait()
	return results
}

func (e *Engine) fetchOne(ctx context.Context, id string, cred Credential) AdapterResult {
	provider, ok := e.Provider(id)
	if !ok {
		e.log.WithField("provider", id).Debug("no adapter registered")
		return UnsupportedResult(id, cred)
	}

	start := time.Now()
	res := provider.Fetch(ctx, cred)
	e.log.WithFields(logrus.Fields{
		"provider": id,
		"kind":     res.Kind,
		"took":     time.Since(start).Round(time.Millisecond),
	}).Debug("fetch finished")
	return res
}
