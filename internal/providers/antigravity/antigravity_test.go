package antigravity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glancelabs/quotaglance/internal/core"
)

const loadResponse = `{
	"currentTier": {"id": "pro-tier", "name": "Pro"},
	"cloudaicompanionProject": "proj-123",
	"promptCredits": 1500
}`

func serve(t *testing.T, modelsStatus int, modelsBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1internal:loadCodeAssist":
			_, _ = w.Write([]byte(loadResponse))
		case "/v1internal:fetchAvailableModels":
			w.WriteHeader(modelsStatus)
			_, _ = w.Write([]byte(modelsBody))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testProvider(server *httptest.Server) (*Provider, core.Credential) {
	p := New()
	p.httpClient = server.Client()
	return p, core.Credential{AccessToken: "tok", BaseURL: server.URL}
}

func TestFetchFullFlow(t *testing.T) {
	server := serve(t, http.StatusOK, `{
		"models": [
			{"id": "model-a", "displayName": "Model A", "recommended": true,
			 "quotaInfo": {"remainingFraction": 0.42, "resetTime": "2026-09-02T10:00:00Z"}},
			{"id": "model-a", "recommended": true, "quotaInfo": {"remainingFraction": 0.42}},
			{"id": "model-b", "quotaInfo": {"remainingFraction": 0.1}},
			{"id": "model-c", "quotaInfo": {"remainingFraction": 1.0}},
			{"id": "model-d", "recommended": true}
		]
	}`)
	defer server.Close()

	p, cred := testProvider(server)
	res := p.Fetch(context.Background(), cred)
	if res.Kind != core.KindTiered {
		t.Fatalf("kind = %q, message = %q", res.Kind, res.Message)
	}

	data := res.Tiered
	if data.Plan != "Pro" || data.TierID != "pro-tier" || data.ProjectID != "proj-123" {
		t.Errorf("tier fields = %+v", data)
	}
	if data.PromptCredits == nil || *data.PromptCredits != 1500 {
		t.Errorf("prompt credits = %v", data.PromptCredits)
	}
	if data.ModelsError != "" {
		t.Errorf("unexpected models error %q", data.ModelsError)
	}

	// model-a deduped, model-c dropped (full quota, not recommended),
	// model-d dropped (no quota info).
	if len(data.Models) != 2 {
		t.Fatalf("expected 2 models, got %+v", data.Models)
	}
	if data.Models[0].ID != "model-a" || data.Models[0].DisplayName != "Model A" {
		t.Errorf("models[0] = %+v", data.Models[0])
	}
	if data.Models[1].ID != "model-b" {
		t.Errorf("models[1] = %+v", data.Models[1])
	}
}

func TestFetchModelStepFailureIsSoft(t *testing.T) {
	server := serve(t, http.StatusInternalServerError, "boom")
	defer server.Close()

	p, cred := testProvider(server)
	res := p.Fetch(context.Background(), cred)
	if res.Kind != core.KindTiered {
		t.Fatalf("model step failure must not fail the fetch: %+v", res)
	}
	if res.Tiered.ModelsError != "model quota fetch failed (500)" {
		t.Errorf("models error = %q", res.Tiered.ModelsError)
	}
	if res.Tiered.Plan != "Pro" {
		t.Errorf("tier data should survive: %+v", res.Tiered)
	}
}

func TestFetchSkipsModelStepWithoutProject(t *testing.T) {
	var modelsCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1internal:loadCodeAssist":
			_, _ = w.Write([]byte(`{"currentTier": {"id": "free-tier", "name": "Free"}, "promptCredits": 50}`))
		case "/v1internal:fetchAvailableModels":
			modelsCalled = true
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	p, cred := testProvider(server)
	res := p.Fetch(context.Background(), cred)
	if res.Kind != core.KindTiered {
		t.Fatalf("kind = %q, message = %q", res.Kind, res.Message)
	}
	if modelsCalled {
		t.Error("model quota endpoint called without a project id")
	}
	if res.Tiered.ModelsError != "" {
		t.Errorf("models error = %q", res.Tiered.ModelsError)
	}
	if res.Tiered.Plan != "Free" || res.Tiered.PromptCredits == nil {
		t.Errorf("tier data = %+v", res.Tiered)
	}
}

func TestFetchTierStepFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p, cred := testProvider(server)
	res := p.Fetch(context.Background(), cred)
	if res.Kind != core.KindError || res.Message != "fetch failed (401)" {
		t.Errorf("result = %+v", res)
	}
}

func TestFetchMissingToken(t *testing.T) {
	p := New()
	res := p.Fetch(context.Background(), core.Credential{})
	if res.Kind != core.KindError {
		t.Fatalf("kind = %q", res.Kind)
	}
}

func TestFetchCredentialProjectWins(t *testing.T) {
	var gotProject string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1internal:loadCodeAssist":
			_, _ = w.Write([]byte(loadResponse))
		case "/v1internal:fetchAvailableModels":
			body, _ := io.ReadAll(r.Body)
			gotProject = string(body)
			_, _ = w.Write([]byte(`{"models": []}`))
		}
	}))
	defer server.Close()

	p := New()
	p.httpClient = server.Client()
	res := p.Fetch(context.Background(), core.Credential{
		AccessToken: "tok",
		BaseURL:     server.URL,
		ProjectID:   "proj-override",
	})
	if res.Tiered.ProjectID != "proj-override" {
		t.Errorf("project = %q", res.Tiered.ProjectID)
	}
	if gotProject != `{"project":"proj-override"}` {
		t.Errorf("model request body = %q", gotProject)
	}
}
