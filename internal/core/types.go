// Package core defines the provider abstraction, the fetch engine and the
// normalized row model shared by the CLI commands and the popup widget.
package core

import "fmt"

// Credential is one provider's stored credential record as read from the
// credential store. Fields a provider does not use stay empty.
type Credential struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	Email        string `json:"email,omitempty"`
	Login        string `json:"login,omitempty"`
	Plan         string `json:"plan,omitempty"`
	Subscription string `json:"subscription,omitempty"`
	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `json:"base_url,omitempty"`
}

// ResultKind tags the variant carried by an AdapterResult.
type ResultKind string

const (
	KindSnapshot    ResultKind = "snapshot"
	KindTiered      ResultKind = "tiered"
	KindProbe       ResultKind = "probe"
	KindError       ResultKind = "error"
	KindUnsupported ResultKind = "unsupported"
)

// AdapterResult is the outcome of one provider fetch. Exactly one of the
// payload pointers is set, selected by Kind; KindError carries Message
// instead. Every fetch produces a result, never a bare Go error, so one
// failing account cannot take down the whole refresh.
type AdapterResult struct {
	Provider string
	Kind     ResultKind

	Snapshot *SnapshotData
	Tiered   *TieredData
	Probe    *ProbeData
	Message  string

	// Credential echoes the record the fetch ran with, for account and
	// plan fallbacks during normalization.
	Credential Credential
}

// ErrorResult builds a KindError result for the given provider.
func ErrorResult(provider string, cred Credential, format string, args ...any) AdapterResult {
	return AdapterResult{
		Provider:   provider,
		Kind:       KindError,
		Message:    fmt.Sprintf(format, args...),
		Credential: cred,
	}
}

// UnsupportedResult builds the fallback result for providers that have no
// quota API to ask.
func UnsupportedResult(provider string, cred Credential) AdapterResult {
	return AdapterResult{Provider: provider, Kind: KindUnsupported, Credential: cred}
}

// SnapshotBucket is one named usage window reported by a
// subscription-snapshot provider, e.g. "five_hour" or "seven_day".
type SnapshotBucket struct {
	Name             string
	Unlimited        bool
	Used             *float64
	Remaining        *float64
	Entitlement      *float64
	PercentRemaining *float64
	// ResetsAt is the bucket's own reset timestamp, already formatted
	// for display. Empty when the API did not report one.
	ResetsAt string
}

// SnapshotData is the payload of a subscription-snapshot fetch.
type SnapshotData struct {
	Buckets   []SnapshotBucket
	SKU       string
	ResetDate string
	Email     string
	Plan      string
}

// ModelQuota is one model's remaining allowance as reported by a
// tiered-model provider.
type ModelQuota struct {
	ID                string
	DisplayName       string
	RemainingFraction *float64
	ResetTime         string
	Recommended       bool
}

// TieredData is the payload of a tiered-model fetch. ModelsError records a
// failure of the per-model step while the tier resolution succeeded; the
// result as a whole is still usable.
type TieredData struct {
	Plan          string
	TierID        string
	ProjectID     string
	Email         string
	PromptCredits *float64
	Models        []ModelQuota
	ModelsError   string
}

// RateWindow is one rate-limit window decoded from probe response headers.
type RateWindow struct {
	Name              string
	UsedPercent       *float64
	ResetAt           *int64
	ResetAfterSeconds *int64
	WindowMinutes     *int64
}

// ProbeCredits carries the optional credits block of a probe result.
type ProbeCredits struct {
	Present   bool
	Unlimited bool
	Balance   *float64
}

// ProbeData is the payload of a header-probe fetch.
type ProbeData struct {
	PlanType string
	Windows  []RateWindow
	// Ratio is the primary-over-secondary limit percentage, when reported.
	Ratio   *float64
	Credits ProbeCredits
	Email   string
}
