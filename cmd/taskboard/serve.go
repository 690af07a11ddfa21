package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abatilo/taskboard/internal/dashboard"
	tberrors "github.com/abatilo/taskboard/internal/errors"
	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/notion"
	"github.com/abatilo/taskboard/internal/server"
	"github.com/abatilo/taskboard/internal/source"
	"github.com/abatilo/taskboard/internal/tui"
	"github.com/abatilo/taskboard/internal/view"
)

// newProducer builds the Notion producer, or nil when no token is set.
func newProducer() *notion.Producer {
	if cfg.Notion.Token == "" {
		return nil
	}
	client := notion.New(notion.Options{
		Token:    cfg.Notion.Token,
		Version:  cfg.Notion.Version,
		BaseURL:  cfg.Notion.BaseURL,
		PageSize: cfg.Notion.PageSize,
		Retries:  cfg.Notion.Retries,
		Timeout:  cfg.Source.Timeout,
	})
	return notion.NewProducer(client, notion.Databases(cfg.Notion.Databases), log.With("component", "notion"))
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// serveCmd implements 'taskboard serve'.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Notion payload and the dashboard API over HTTP",
		Run: func(cmd *cobra.Command, _ []string) {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			// With a Notion token the server reads Notion directly; without one
			// it proxies the configured data source.
			var (
				fetcher source.Fetcher
				payload server.PayloadSource
			)
			if producer := newProducer(); producer != nil {
				fetcher, payload = producer, producer
			} else {
				log.Warn("notion.token is not set; reading the data source instead", "url", cfg.Source.URL)
				fetcher = newFetcher()
			}

			metrics := server.NewMetrics()
			live := dashboard.NewLive(
				newRefresher(fetcher, metrics),
				view.NewState(view.FilterAll, view.SortPriority),
				log,
			)
			srv := server.New(live, payload, metrics, log.With("component", "server"))

			if err := live.Refresh(ctx); err != nil {
				log.Warn("initial refresh failed", "err", err)
			}
			if cfg.Refresh.Interval > 0 {
				stop := live.Schedule(ctx, cfg.Refresh.Interval)
				defer stop()
			}

			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				printError(err)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8000)")
	return cmd
}

// watchCmd implements 'taskboard watch'.
func watchCmd() *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the board on every refresh",
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			notifier := dashboard.NotifierFunc(func(n dashboard.Notification) {
				if n.Level == dashboard.LevelError {
					printOutput(formatter.FormatError(tberrors.NotificationError{Message: n.Message}))
				}
			})
			live := dashboard.NewLive(newRefresher(newFetcher(), notifier), vf.state(), log)
			live.OnApply(func(s view.State) {
				printOutput(formatter.FormatBoard(s.View().Board))
			})

			if err := live.Refresh(ctx); err != nil {
				log.Warn("initial refresh failed", "err", err)
			}
			interval := cfg.Refresh.Interval
			if interval <= 0 {
				log.Info("refresh.interval is 0; nothing to watch")
				return
			}
			stop := live.Schedule(ctx, interval)
			<-ctx.Done()
			stop()
		},
	}
	vf.register(cmd)
	return cmd
}

// tuiCmd implements 'taskboard tui'.
func tuiCmd() *cobra.Command {
	var (
		vf     viewFlags
		layout string
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Run: func(_ *cobra.Command, _ []string) {
			if layout == "" {
				layout = cfg.View.Layout
			}
			l, err := tui.ParseLayout(layout)
			if err != nil {
				printError(err)
			}

			initial := vf.state()
			// The alternate screen owns the terminal; failures surface as toasts.
			log = logger.Discard()
			notifier := tui.NewNotifier()
			m := tui.New(newRefresher(newFetcher(), notifier), notifier, tui.Options{
				Layout:    l,
				Filter:    initial.Filter(),
				Sort:      initial.Sort(),
				Query:     initial.Query(),
				Refresh:   cfg.Refresh.Interval,
				TVRotate:  cfg.View.TVRotate,
				ToastTime: cfg.View.ToastTime,
			})
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				printError(err)
			}
		},
	}
	vf.register(cmd)
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "Layout (board, tv, mobile)")
	return cmd
}
