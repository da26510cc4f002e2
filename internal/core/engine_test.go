package core

import (
	"context"
	"testing"
	"time"
)

type fakeProvider struct {
	id    string
	delay time.Duration
	fetch func(ctx context.Context, cred Credential) AdapterResult
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Fetch(ctx context.Context, cred Credential) AdapterResult {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ErrorResult(f.id, cred, "cancelled")
		}
	}
	if f.fetch != nil {
		return f.fetch(ctx, cred)
	}
	return AdapterResult{Provider: f.id, Kind: KindProbe, Probe: &ProbeData{}, Credential: cred}
}

func TestEngineFetchAllOrderedByProviderID(t *testing.T) {
	e := NewEngine(nil)
	// The slowest provider sorts first; order must not depend on timing.
	e.Register(&fakeProvider{id: "alpha", delay: 50 * time.Millisecond})
	e.Register(&fakeProvider{id: "beta"})
	e.Register(&fakeProvider{id: "gamma"})

	creds := map[string]Credential{
		"gamma": {},
		"alpha": {},
		"beta":  {},
	}
	results := e.FetchAll(context.Background(), creds)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if results[i].Provider != want {
			t.Errorf("results[%d].Provider = %q, want %q", i, results[i].Provider, want)
		}
	}
}

func TestEngineFetchAllUnknownProviderIsUnsupported(t *testing.T) {
	e := NewEngine(nil)
	e.Register(&fakeProvider{id: "known"})

	results := e.FetchAll(context.Background(), map[string]Credential{
		"known":  {},
		"novel":  {AccountID: "acct-1"},
		"zother": {},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Kind != KindProbe {
		t.Errorf("known provider kind = %q", results[0].Kind)
	}
	if results[1].Kind != KindUnsupported || results[2].Kind != KindUnsupported {
		t.Errorf("unregistered providers should be unsupported: %q, %q", results[1].Kind, results[2].Kind)
	}
	if results[1].Credential.AccountID != "acct-1" {
		t.Errorf("credential not echoed on unsupported result: %+v", results[1])
	}
}

func TestEngineFetchAllOneFailureDoesNotPoisonOthers(t *testing.T) {
	e := NewEngine(nil)
	e.Register(&fakeProvider{id: "bad", fetch: func(ctx context.Context, cred Credential) AdapterResult {
		return ErrorResult("bad", cred, "fetch failed (503)")
	}})
	e.Register(&fakeProvider{id: "good"})

	results := e.FetchAll(context.Background(), map[string]Credential{"bad": {}, "good": {}})
	if results[0].Kind != KindError || results[0].Message != "fetch failed (503)" {
		t.Errorf("bad result = %+v", results[0])
	}
	if results[1].Kind != KindProbe {
		t.Errorf("good result = %+v", results[1])
	}
}

func TestEngineFetchAllEmptyCredentials(t *testing.T) {
	e := NewEngine(nil)
	if got := e.FetchAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}
