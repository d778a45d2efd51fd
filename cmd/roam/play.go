package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mobil-koeln/roamly/internal/app"
	"github.com/mobil-koeln/roamly/internal/journey"
	"github.com/mobil-koeln/roamly/internal/models"
	"github.com/mobil-koeln/roamly/internal/output"
	"github.com/mobil-koeln/roamly/internal/schedule"
)

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Replay the journey to a destination",
	Long: `Replay the journey to a destination without the map: the camera moves,
the progress of the vehicle and the destination card are printed as the
journey runs. The command exits once the card is shown.

Examples:
  roam play 1
  roam play 1 --duration 5s --nats-url nats://localhost:4222`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

// arrivalWatch closes done once a journey reaches the details phase
type arrivalWatch struct {
	journey.NopObserver
	done chan struct{}
	once sync.Once
}

func newArrivalWatch() *arrivalWatch {
	return &arrivalWatch{done: make(chan struct{})}
}

func (w *arrivalWatch) PhaseChanged(_, to journey.Phase, _ *models.Destination) {
	if to == journey.Details {
		w.once.Do(func() { close(w.done) })
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	ds, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	observers, shutdown, err := newObservers(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	loop := schedule.NewLoop()
	live := output.IsTerminal(os.Stdout)
	con := output.NewConsole(os.Stdout, loop,
		output.WithColors(output.NewColors(getColorMode())),
		output.WithLiveProgress(live))
	if live {
		output.HideCursor(os.Stdout)
		defer output.ShowCursor(os.Stdout)
	}

	watch := newArrivalWatch()
	observers = append(observers, con, watch)
	ctrl := journey.NewController(loop, con, con,
		journey.WithLogger(logger),
		journey.WithOptions(cfg.Journey),
		journey.WithObserver(journey.Observers(observers...)))
	a := app.New(repo, ctrl, con, con, app.WithLogger(logger))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = loop.Run(runCtx) }()

	started := make(chan error, 1)
	err = loop.Post(func() {
		if err := a.Ready(ds); err != nil {
			started <- err
			return
		}
		ok, err := a.Select(ctx, id)
		if err == nil && !ok {
			err = errors.New("journey already in flight")
		}
		started <- err
	})
	if err == nil {
		err = <-started
	}
	if err != nil {
		cancel()
		<-loop.Done()
		return fmt.Errorf("destination %d: %w", id, err)
	}

	select {
	case <-watch.done:
		// the card is printed on the loop right after the phase change
		if err := loop.Post(cancel); err != nil {
			cancel()
		}
	case <-ctx.Done():
		// runCtx is done too; once the loop has exited nothing else touches the app
		<-loop.Done()
		a.Destroy()
		fmt.Println()
		fmt.Println("Journey interrupted.")
		return nil
	}
	<-loop.Done()
	return nil
}
