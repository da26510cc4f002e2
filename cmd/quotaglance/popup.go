package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/glancelabs/quotaglance/internal/config"
	"github.com/glancelabs/quotaglance/internal/tui"
)

// debounce absorbs the write bursts credential tooling produces when it
// rewrites the store file.
const watchDebounce = 500 * time.Millisecond

func runPopup(ctx context.Context, widthFlag int, watch bool) error {
	settings, err := config.LoadSettings()
	if err != nil {
		log.WithError(err).Warn("settings unreadable, using defaults")
	}
	width := settings.Width
	if widthFlag > 0 {
		width = widthFlag
	}

	rows, err := fetchRows(ctx)
	if err != nil {
		return err
	}

	dismiss := time.Duration(settings.DismissAfterSeconds) * time.Second
	if watch {
		// Watch mode is for keeping an eye on things; the popup stays
		// until dismissed by hand.
		dismiss = 0
	}

	model := tui.NewModel(rows, width, dismiss)
	return tui.Run(model, func(p *tea.Program) {
		if watch {
			go watchCredentials(ctx, p)
		}
	})
}

// watchCredentials refetches on credential store changes and pushes the new
// rows into the running popup. In-flight fetches are never cancelled by the
// popup closing; they finish and their send is simply dropped.
func watchCredentials(ctx context.Context, p *tea.Program) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("credential watch unavailable")
		return
	}
	defer watcher.Close()

	// Watch the directory: editors and login tools replace the file,
	// which drops a watch set on the file itself.
	if err := watcher.Add(config.ConfigDir()); err != nil {
		log.WithError(err).Warn("credential watch unavailable")
		return
	}
	target := config.CredentialsPath()

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != target || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				rows, err := fetchRows(ctx)
				if err != nil {
					log.WithError(err).Warn("refetch failed")
					return
				}
				p.Send(tui.RowsMsg{Rows: rows})
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Debug("watch error")
		}
	}
}
