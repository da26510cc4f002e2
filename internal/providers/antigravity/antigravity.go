// Package antigravity fetches per-model quota for Antigravity accounts via
// the Code Assist API: loadCodeAssist resolves the account's tier and
// project, fetchAvailableModels reports remaining fractions per model.
package antigravity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/providers/shared"
)

const (
	providerID     = "antigravity"
	defaultBaseURL = "https://cloudcode-pa.googleapis.com"
	loadMethod     = "/v1internal:loadCodeAssist"
	modelsMethod   = "/v1internal:fetchAvailableModels"
)

type Provider struct {
	httpClient *http.Client
}

func New() *Provider {
	return &Provider{httpClient: shared.NewHTTPClient()}
}

func (p *Provider) ID() string { return providerID }

// Fetch runs the two-step protocol. Step one failing is fatal for this
// provider; step two failing only drops the per-model rows, because the
// tier information alone is still worth showing.
func (p *Provider) Fetch(ctx context.Context, cred core.Credential) core.AdapterResult {
	token := strings.TrimSpace(cred.AccessToken)
	if token == "" {
		return core.ErrorResult(providerID, cred, "missing credential: no OAuth access token")
	}
	base := shared.ResolveBaseURL(cred, defaultBaseURL)

	loadBody, status, err := p.post(ctx, base+loadMethod, token, map[string]any{
		"metadata": map[string]string{
			"ideType":    "IDE_UNSPECIFIED",
			"platform":   "PLATFORM_UNSPECIFIED",
			"pluginType": "GEMINI",
		},
	})
	if err != nil {
		return core.ErrorResult(providerID, cred, "request failed: %v", err)
	}
	if status < 200 || status >= 300 {
		return core.ErrorResult(providerID, cred, "fetch failed (%d)", status)
	}

	load := gjson.ParseBytes(loadBody)
	data := &core.TieredData{
		Plan:      shared.FirstNonEmpty(load.Get("currentTier.name").String(), load.Get("allowedTiers.#(isDefault==true).name").String()),
		TierID:    load.Get("currentTier.id").String(),
		ProjectID: shared.FirstNonEmpty(cred.ProjectID, load.Get("cloudaicompanionProject").String()),
	}
	if credits := load.Get("promptCredits"); credits.Type == gjson.Number {
		v := credits.Float()
		data.PromptCredits = &v
	}

	// Without a project id the models call is pointless, the tier and
	// credit rows are all this account can show.
	if data.ProjectID != "" {
		p.fetchModels(ctx, base, token, data)
	}

	return core.AdapterResult{
		Provider:   providerID,
		Kind:       core.KindTiered,
		Tiered:     data,
		Credential: cred,
	}
}

func (p *Provider) fetchModels(ctx context.Context, base, token string, data *core.TieredData) {
	body, status, err := p.post(ctx, base+modelsMethod, token, map[string]any{"project": data.ProjectID})
	if err != nil {
		data.ModelsError = "model quota fetch failed: " + err.Error()
		return
	}
	if status < 200 || status >= 300 {
		data.ModelsError = fmt.Sprintf("model quota fetch failed (%d)", status)
		return
	}
	data.Models = parseModels(body)
}

// parseModels keeps only models that report quota information and are
// either recommended or partially consumed, so the table shows the models
// the account is actually metered on.
func parseModels(body []byte) []core.ModelQuota {
	var models []core.ModelQuota
	gjson.ParseBytes(body).Get("models").ForEach(func(_, m gjson.Result) bool {
		quota := m.Get("quotaInfo")
		if !quota.Exists() {
			return true
		}
		mq := core.ModelQuota{
			ID:          shared.FirstNonEmpty(m.Get("id").String(), m.Get("name").String()),
			DisplayName: m.Get("displayName").String(),
			ResetTime:   quota.Get("resetTime").String(),
			Recommended: m.Get("recommended").Bool(),
		}
		if rf := quota.Get("remainingFraction"); rf.Type == gjson.Number {
			v := rf.Float()
			mq.RemainingFraction = &v
		}
		consumed := mq.RemainingFraction != nil && *mq.RemainingFraction < 1
		if !mq.Recommended && !consumed {
			return true
		}
		models = append(models, mq)
		return true
	})
	return lo.UniqBy(models, func(m core.ModelQuota) string { return m.ID })
}

func (p *Provider) post(ctx context.Context, url, token string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	return shared.ReadBody(resp.Body), resp.StatusCode, nil
}
