// Package claude fetches subscription usage for Claude OAuth accounts. The
// usage endpoint returns named buckets (five_hour, seven_day, ...) in one
// authenticated GET.
package claude

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/providers/shared"
)

const (
	providerID     = "claude"
	defaultBaseURL = "https://api.anthropic.com"
	usagePath      = "/api/oauth/usage"
	oauthBeta      = "oauth-2025-04-20"
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
		return core.ErrorResult(providerID, cred, "missing credential: no OAuth access token")
	}

	url := shared.ResolveBaseURL(cred, defaultBaseURL) + usagePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.ErrorResult(providerID, cred, "building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("anthropic-beta", oauthBeta)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return core.ErrorResult(providerID, cred, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body := shared.ReadBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.ErrorResult(providerID, cred, "fetch failed (%d)", resp.StatusCode)
	}

	return core.AdapterResult{
		Provider:   providerID,
		Kind:       core.KindSnapshot,
		Snapshot:   parseUsage(body),
		Credential: cred,
	}
}

// parseUsage walks the top-level response object. Any member object that
// carries usage fields counts as a bucket, in document order; the API adds
// windows over time and we do not keep a closed list.
func parseUsage(body []byte) *core.SnapshotData {
	root := gjson.ParseBytes(body)
	data := &core.SnapshotData{
		SKU:       shared.FirstNonEmpty(root.Get("sku").String(), root.Get("subscription_sku").String()),
		ResetDate: root.Get("reset_date").String(),
		Email:     shared.FirstNonEmpty(root.Get("account.email").String(), root.Get("email").String()),
		Plan:      shared.FirstNonEmpty(root.Get("account.plan").String(), root.Get("plan").String()),
	}

	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() || !isBucket(value) {
			return true
		}
		data.Buckets = append(data.Buckets, parseBucket(key.String(), value))
		return true
	})
	return data
}

var bucketFields = []string{"used", "remaining", "entitlement", "percent_remaining", "unlimited", "utilization"}

func isBucket(v gjson.Result) bool {
	for _, f := range bucketFields {
		if v.Get(f).Exists() {
			return true
		}
	}
	return false
}

func parseBucket(name string, v gjson.Result) core.SnapshotBucket {
	b := core.SnapshotBucket{
		Name:      name,
		Unlimited: v.Get("unlimited").Bool(),
		Used:      optFloat(v.Get("used")),
		Remaining: optFloat(v.Get("remaining")),
		ResetsAt:  resetLabel(v.Get("resets_at")),
	}
	b.Entitlement = optFloat(v.Get("entitlement"))
	b.PercentRemaining = optFloat(v.Get("percent_remaining"))
	// Some responses report utilization (percent used) instead.
	if b.PercentRemaining == nil {
		if u := optFloat(v.Get("utilization")); u != nil {
			rem := 100 - *u
			b.PercentRemaining = &rem
			if b.Used == nil {
				b.Used = u
			}
		}
	}
	return b
}

func optFloat(v gjson.Result) *float64 {
	if !v.Exists() || v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func resetLabel(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0).Local().Format("2006-01-02 15:04")
	case gjson.String:
		t, err := time.Parse(time.RFC3339, v.String())
		if err != nil {
			return v.String()
		}
		return t.Local().Format("2006-01-02 15:04")
	default:
		return ""
	}
}
