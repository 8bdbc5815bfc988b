package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfassina/mdtoc/internal/app"
	"github.com/pfassina/mdtoc/internal/ui"
	"github.com/pfassina/mdtoc/internal/watch"
)

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep TOCs current as markdown files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			r, done, err := c.runner()
			if err != nil {
				return err
			}
			defer done()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := ui.NewStyles(ui.DefaultPalette())
			out := cmd.OutOrStdout()
			var mu sync.Mutex
			errc := make(chan error, 1)

			h := watch.Handler{
				Change: func(path string) {
					res := r.InsertFile(ctx, path, true)
					if res.Outcome != app.Updated && res.Outcome != app.Failed {
						return
					}
					mu.Lock()
					fmt.Fprintln(out, s.Status(res))
					mu.Unlock()
				},
				Remove: func(path string) {
					if err := r.Forget(path); err != nil {
						c.log.Warn("forget removed file", zap.String("path", path), zap.Error(err))
					}
				},
				Error: func(err error) {
					errc <- err
				},
			}

			delay := time.Duration(c.cfg.Debounce) * time.Millisecond
			w, err := watch.New(dir, delay, h, c.log)
			if err != nil {
				return err
			}
			c.log.Info("watching", zap.String("dir", dir), zap.Duration("debounce", delay))

			w.Start(ctx)
			closeErr := w.Close()
			select {
			case err := <-errc:
				return err
			default:
				return closeErr
			}
		},
	}
}
