package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// QuotaRow is one line of the rendered quota table. Remaining, when set, is
// the fraction left in [0, 1] and drives the bar column.
type QuotaRow struct {
	Provider  string
	Account   string
	Plan      string
	Metric    string
	Value     string
	Reset     string
	Remaining *float64
}

const (
	placeholderText = "No data"
	emptyField      = "-"
	unknownPlan     = "unknown"
)

// PlaceholderRow is returned when no provider produced any rows, so the
// table never renders empty.
func PlaceholderRow() QuotaRow {
	return QuotaRow{
		Provider: placeholderText,
		Account:  placeholderText,
		Plan:     placeholderText,
		Metric:   placeholderText,
		Value:    emptyField,
		Reset:    emptyField,
	}
}

// Rows flattens adapter results into display rows, one group per provider,
// preserving the result order. An empty input yields the placeholder row.
func Rows(results []AdapterResult) []QuotaRow {
	var rows []QuotaRow
	for _, res := range results {
		rows = append(rows, resultRows(res)...)
	}
	if len(rows) == 0 {
		rows = append(rows, PlaceholderRow())
	}
	return rows
}

func resultRows(res AdapterResult) []QuotaRow {
	base := QuotaRow{
		Provider: res.Provider,
		Account:  accountHint(res),
		Plan:     planHint(res),
		Value:    emptyField,
		Reset:    emptyField,
	}

	switch res.Kind {
	case KindSnapshot:
		return snapshotRows(base, res.Snapshot)
	case KindTiered:
		return tieredRows(base, res.Tiered)
	case KindProbe:
		return probeRows(base, res.Probe)
	case KindUnsupported:
		row := base
		row.Metric = "quota"
		row.Value = "Unavailable for this provider"
		return []QuotaRow{row}
	default:
		row := base
		row.Metric = "error"
		row.Value = res.Message
		return []QuotaRow{row}
	}
}

func snapshotRows(base QuotaRow, data *SnapshotData) []QuotaRow {
	var rows []QuotaRow
	if data == nil || len(data.Buckets) == 0 {
		row := base
		row.Metric = "usage"
		row.Value = "No snapshot data"
		return []QuotaRow{row}
	}

	for _, b := range data.Buckets {
		row := base
		row.Metric = b.Name
		if b.ResetsAt != "" {
			row.Reset = b.ResetsAt
		}
		row.Value, row.Remaining = bucketValue(b)
		rows = append(rows, row)
	}
	if data.SKU != "" {
		row := base
		row.Metric = "sku"
		row.Value = data.SKU
		rows = append(rows, row)
	}
	if data.ResetDate != "" {
		row := base
		row.Metric = "resets"
		row.Value = data.ResetDate
		rows = append(rows, row)
	}
	return rows
}

func bucketValue(b SnapshotBucket) (string, *float64) {
	if b.Unlimited {
		return "Unlimited", nil
	}

	pct := b.PercentRemaining
	if pct == nil && b.Remaining != nil && b.Entitlement != nil && *b.Entitlement > 0 {
		v := *b.Remaining / *b.Entitlement * 100
		pct = &v
	}

	switch {
	case pct != nil && b.Remaining != nil && b.Entitlement != nil:
		return fmt.Sprintf("%.1f%% (%s/%s)", *pct, formatCount(*b.Remaining), formatCount(*b.Entitlement)), fraction(*pct)
	case pct != nil:
		return fmt.Sprintf("%.1f%%", *pct), fraction(*pct)
	default:
		return "Partial snapshot data", nil
	}
}

func tieredRows(base QuotaRow, data *TieredData) []QuotaRow {
	var rows []QuotaRow
	if data == nil {
		data = &TieredData{}
	}

	if data.PromptCredits != nil {
		row := base
		row.Metric = "prompt credits"
		row.Value = formatCount(*data.PromptCredits)
		rows = append(rows, row)
	}

	models := make([]ModelQuota, len(data.Models))
	copy(models, data.Models)
	sort.Slice(models, func(i, j int) bool {
		return modelMetric(models[i]) < modelMetric(models[j])
	})
	for _, m := range models {
		row := base
		row.Metric = modelMetric(m)
		if m.RemainingFraction != nil {
			pct := *m.RemainingFraction * 100
			row.Value = fmt.Sprintf("%.1f%%", pct)
			row.Remaining = fraction(pct)
		} else {
			row.Value = "n/a"
		}
		row.Reset = formatModelReset(m.ResetTime)
		rows = append(rows, row)
	}

	if data.ModelsError != "" {
		row := base
		row.Metric = "models"
		row.Value = data.ModelsError
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		row := base
		row.Metric = "quota"
		row.Value = "No quota data"
		rows = append(rows, row)
	}
	return rows
}

func modelMetric(m ModelQuota) string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.ID
}

func probeRows(base QuotaRow, data *ProbeData) []QuotaRow {
	var rows []QuotaRow
	if data == nil {
		data = &ProbeData{}
	}

	for _, w := range data.Windows {
		row := base
		row.Metric = w.Name
		if w.WindowMinutes != nil {
			row.Metric = fmt.Sprintf("%s (%s)", w.Name, windowLabel(*w.WindowMinutes))
		}
		if w.UsedPercent != nil {
			rem := 100 - *w.UsedPercent
			row.Value = fmt.Sprintf("%.1f%% rem", rem)
			row.Remaining = fraction(rem)
		} else {
			row.Value = "n/a"
		}
		switch {
		case w.ResetAt != nil:
			row.Reset = formatEpoch(*w.ResetAt)
		case w.ResetAfterSeconds != nil:
			row.Reset = "in " + durationLabel(*w.ResetAfterSeconds)
		}
		rows = append(rows, row)
	}

	if data.Ratio != nil {
		row := base
		row.Metric = "primary/secondary"
		row.Value = fmt.Sprintf("%.0f%%", *data.Ratio)
		rows = append(rows, row)
	}
	if data.Credits.Present {
		row := base
		row.Metric = "credits"
		if data.Credits.Unlimited {
			row.Value = "Unlimited"
		} else if data.Credits.Balance != nil {
			row.Value = fmt.Sprintf("%.2f", *data.Credits.Balance)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		row := base
		row.Metric = "rate limits"
		row.Value = "No rate limit headers"
		rows = append(rows, row)
	}
	return rows
}

func accountHint(res AdapterResult) string {
	candidates := []string{dataEmail(res), res.Credential.Email, res.Credential.Login, res.Credential.AccountID}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return res.Provider
}

func planHint(res AdapterResult) string {
	var reported, tierID string
	switch res.Kind {
	case KindSnapshot:
		if res.Snapshot != nil {
			reported = res.Snapshot.Plan
		}
	case KindTiered:
		if res.Tiered != nil {
			reported = res.Tiered.Plan
			tierID = res.Tiered.TierID
		}
	case KindProbe:
		if res.Probe != nil {
			reported = res.Probe.PlanType
		}
	}
	candidates := []string{reported, tierID, res.Credential.Plan, res.Credential.Subscription}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return unknownPlan
}

func dataEmail(res AdapterResult) string {
	switch res.Kind {
	case KindSnapshot:
		if res.Snapshot != nil {
			return res.Snapshot.Email
		}
	case KindTiered:
		if res.Tiered != nil {
			return res.Tiered.Email
		}
	case KindProbe:
		if res.Probe != nil {
			return res.Probe.Email
		}
	}
	return ""
}

// fraction clamps a percentage to the [0, 1] bar range.
func fraction(pct float64) *float64 {
	f := pct / 100
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return &f
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatEpoch(sec int64) string {
	return time.Unix(sec, 0).Local().Format("2006-01-02 15:04")
}

func formatModelReset(iso string) string {
	if iso == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Local().Format("2006-01-02")
}

func windowLabel(minutes int64) string {
	d := time.Duration(minutes) * time.Minute
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		return strconv.FormatInt(int64(d/(24*time.Hour)), 10) + "d"
	}
	return durationLabel(int64(d / time.Second))
}

func durationLabel(seconds int64) string {
	d := (time.Duration(seconds) * time.Second).Round(time.Minute)
	h := int64(d / time.Hour)
	m := int64(d%time.Hour) / int64(time.Minute)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
