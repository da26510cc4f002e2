// Package codex reads rate-limit state for Codex accounts. There is no
// usage endpoint to ask; instead we send one minimal synthetic completion
// request and harvest the x-codex-* response headers, discarding the body.
package codex

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/parsers"
	"github.com/glancelabs/quotaglance/internal/providers/shared"
)

const (
	providerID     = "codex"
	defaultBaseURL = "https://chatgpt.com"
	responsesPath  = "/backend-api/codex/responses"

	// The backend rejects requests that do not look like the official
	// CLI, so the probe carries its header set.
	originator = "codex_cli_rs"
	userAgent  = "codex_cli_rs/0.0.0"

	authClaim = "https://api.openai.com/auth"
)

const (
	hdrPlanType       = "x-codex-plan-type"
	hdrRatio          = "x-codex-primary-over-secondary-limit-percent"
	hdrCreditsBalance = "x-codex-credits-balance"
	hdrCreditsUnlim   = "x-codex-credits-unlimited"
)

type Provider struct {
	httpClient *http.Client
}

func New() *Provider {
	return &Provider{httpClient: shared.NewHTTPClient()}
}

func (p *Provider) ID() string { return providerID }

func (p *Provider) Fetch(ctx context.Context, cred core.Credential) core.AdapterResult {
	token := strings.TrimSpace(cred.AccessToken)
	if token == "" {
		return core.ErrorResult(providerID, cred, "missing credential: no access token")
	}

	claims := parsers.TokenClaims(token)
	accountID := shared.FirstNonEmpty(
		cred.AccountID,
		parsers.ClaimString(claims, authClaim, "chatgpt_account_id"),
		parsers.ClaimString(claims, "chatgpt_account_id"),
	)
	if accountID == "" {
		return core.ErrorResult(providerID, cred, "missing account id: not in credential or token claims")
	}

	req, err := p.probeRequest(ctx, shared.ResolveBaseURL(cred, defaultBaseURL), token, accountID)
	if err != nil {
		return core.ErrorResult(providerID, cred, "building request: %v", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return core.ErrorResult(providerID, cred, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := shared.ErrorExcerpt(shared.ReadBody(resp.Body))
		if excerpt == "" {
			return core.ErrorResult(providerID, cred, "probe failed (%d)", resp.StatusCode)
		}
		return core.ErrorResult(providerID, cred, "probe failed (%d): %s", resp.StatusCode, excerpt)
	}

	// Everything we need is in the headers; the streamed body is noise.
	data := parseHeaders(resp.Header)
	data.Email = shared.FirstNonEmpty(
		parsers.ClaimString(claims, authClaim, "email"),
		parsers.ClaimString(claims, "email"),
	)
	if data.PlanType == "" {
		data.PlanType = parsers.ClaimString(claims, authClaim, "chatgpt_plan_type")
	}

	return core.AdapterResult{
		Provider:   providerID,
		Kind:       core.KindProbe,
		Probe:      data,
		Credential: cred,
	}
}

func (p *Provider) probeRequest(ctx context.Context, base, token, accountID string) (*http.Request, error) {
	payload := map[string]any{
		"model":        "gpt-5",
		"instructions": "ping",
		"input": []map[string]any{
			{
				"type":    "message",
				"role":    "user",
				"content": []map[string]string{{"type": "input_text", "text": "ping"}},
			},
		},
		"stream": true,
		"store":  false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+responsesPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("originator", originator)
	req.Header.Set("OpenAI-Beta", "responses=experimental")
	req.Header.Set("chatgpt-account-id", accountID)
	req.Header.Set("session_id", uuid.NewString())
	return req, nil
}

func parseHeaders(h http.Header) *core.ProbeData {
	data := &core.ProbeData{PlanType: h.Get(hdrPlanType)}

	for _, name := range []string{"primary", "secondary"} {
		w := core.RateWindow{
			Name:              name,
			UsedPercent:       parsers.HeaderFloat(h, "x-codex-"+name+"-used-percent"),
			ResetAt:           parsers.HeaderInt(h, "x-codex-"+name+"-reset-at"),
			ResetAfterSeconds: parsers.HeaderInt(h, "x-codex-"+name+"-reset-after-seconds"),
			WindowMinutes:     parsers.HeaderInt(h, "x-codex-"+name+"-window-minutes"),
		}
		if w.UsedPercent != nil || w.ResetAt != nil || w.ResetAfterSeconds != nil || w.WindowMinutes != nil {
			data.Windows = append(data.Windows, w)
		}
	}

	data.Ratio = parsers.HeaderFloat(h, hdrRatio)
	balance := parsers.HeaderFloat(h, hdrCreditsBalance)
	unlimited := parsers.Bool(h.Get(hdrCreditsUnlim))
	data.Credits = core.ProbeCredits{
		Present:   unlimited || balance != nil,
		Unlimited: unlimited,
		Balance:   balance,
	}
	return data
}
