package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glancelabs/quotaglance/internal/config"
	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/table"
)

// opPayload is the machine-readable shape of a single-provider query.
// Failures travel in the ok/error pair; the command itself exits zero
// whenever it managed to ask the question.
type opPayload struct {
	OK       bool    `json:"ok"`
	Error    string  `json:"error,omitempty"`
	Provider string  `json:"provider"`
	Account  string  `json:"account,omitempty"`
	Plan     string  `json:"plan,omitempty"`
	Rows     []opRow `json:"rows"`
	// Data carries the adapter's variant payload untouched, for callers
	// that want more than the flattened rows.
	Data any `json:"data,omitempty"`
}

type opRow struct {
	Metric    string   `json:"metric"`
	Value     string   `json:"value"`
	Reset     string   `json:"reset,omitempty"`
	Remaining *float64 `json:"remaining,omitempty"`
}

func newProviderCmd(providerID string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   providerID,
		Short: fmt.Sprintf("query %s quota on its own", providerID),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviderOp(cmd.Context(), cmd.OutOrStdout(), providerID, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit structured JSON instead of a table")
	return cmd
}

func runProviderOp(ctx context.Context, out io.Writer, providerID string, asJSON bool) error {
	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	payload := queryProvider(ctx, providerID, creds)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if payload.Error != "" {
		fmt.Fprintf(out, "%s: %s\n", providerID, payload.Error)
	}
	rows := payloadRows(payload)
	for _, line := range table.Render(rows, 0) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func queryProvider(ctx context.Context, providerID string, creds map[string]core.Credential) opPayload {
	payload := opPayload{Provider: providerID}

	cred, ok := creds[providerID]
	if !ok {
		payload.Error = "no credential stored for " + providerID
		return payload
	}

	result := newEngine().FetchAll(ctx, map[string]core.Credential{providerID: cred})[0]
	rows := core.Rows([]core.AdapterResult{result})

	payload.OK = result.Kind != core.KindError && result.Kind != core.KindUnsupported
	switch result.Kind {
	case core.KindSnapshot:
		payload.Data = result.Snapshot
	case core.KindTiered:
		payload.Data = result.Tiered
	case core.KindProbe:
		payload.Data = result.Probe
	case core.KindUnsupported:
		payload.Error = "unsupported provider"
	case core.KindError:
		payload.Error = result.Message
	}
	if len(rows) > 0 {
		payload.Account = rows[0].Account
		payload.Plan = rows[0].Plan
	}
	for _, r := range rows {
		payload.Rows = append(payload.Rows, opRow{
			Metric:    r.Metric,
			Value:     r.Value,
			Reset:     r.Reset,
			Remaining: r.Remaining,
		})
	}
	return payload
}

func payloadRows(p opPayload) []core.QuotaRow {
	rows := make([]core.QuotaRow, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, core.QuotaRow{
			Provider:  p.Provider,
			Account:   p.Account,
			Plan:      p.Plan,
			Metric:    r.Metric,
			Value:     r.Value,
			Reset:     r.Reset,
			Remaining: r.Remaining,
		})
	}
	return rows
}
