package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glancelabs/quotaglance/internal/config"
	"github.com/glancelabs/quotaglance/internal/core"
	"github.com/glancelabs/quotaglance/internal/providers"
	"github.com/glancelabs/quotaglance/internal/table"
	"github.com/glancelabs/quotaglance/internal/version"
)

var log = logrus.New()

func main() {
	setupLogging()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "quotaglance:", err)
		os.Exit(1)
	}
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if os.Getenv("QUOTAGLANCE_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
}

func newRootCmd() *cobra.Command {
	var (
		width int
		watch bool
	)

	root := &cobra.Command{
		Use:           "quotaglance",
		Short:         "glance at remaining quota across AI provider accounts",
		Long:          "quotaglance fetches remaining usage quota for every account in the credential store and shows the result as a popup table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPopup(cmd.Context(), width, watch)
		},
	}
	root.Flags().IntVar(&width, "width", 0, "force render width instead of the terminal's")
	root.Flags().BoolVar(&watch, "watch", false, "refetch when the credential store changes")

	root.AddCommand(newTableCmd())
	root.AddCommand(newProviderCmd("codex"))
	root.AddCommand(newProviderCmd("antigravity"))
	root.AddCommand(newVersionCmd())
	return root
}

func newTableCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "table",
		Short: "print the quota table once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := fetchRows(cmd.Context())
			if err != nil {
				return err
			}
			if width == 0 {
				width = terminalWidth()
			}
			for _, line := range table.Render(rows, width) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "target table width, 0 for terminal width")
	return cmd
}

// terminalWidth reports the width of stdout, or 0 when stdout is not a
// terminal (pipes get the unconstrained layout).
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newEngine() *core.Engine {
	e := core.NewEngine(log)
	providers.RegisterAll(e)
	return e
}

// fetchRows runs one full refresh. An unreadable credential store is the
// one fatal error; everything downstream degrades to rows.
func fetchRows(ctx context.Context) ([]core.QuotaRow, error) {
	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, err
	}
	return core.Rows(newEngine().FetchAll(ctx, creds)), nil
}
