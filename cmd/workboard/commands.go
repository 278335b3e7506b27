package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"workboard/internal/bot"
	"workboard/internal/logging"
	"workboard/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the scheduled passes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.cfg.RequireTelegram(); err != nil {
			return err
		}

		tg, err := bot.New(a.cfg.TelegramToken, a.orch, a.svc.Settings, float64(a.cfg.SendRatePerSec), logging.Component(a.log, "bot"))
		if err != nil {
			return err
		}
		a.out.target = tg

		if err := a.scheduleJobs(); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.scheduler.Start(gctx)
			<-gctx.Done()
			a.scheduler.Stop()
			return nil
		})
		g.Go(func() error {
			return tg.Start(gctx)
		})

		a.log.Info().Int("jobs", a.scheduler.Entries()).Str("timezone", a.cfg.Timezone).Msg("workboard started")
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve: %w", err)
		}
		a.log.Info().Msg("shutdown complete")
		return nil
	},
}

var triggerCmd = &cobra.Command{
	Use:       "trigger <morning|midday|evening|blocks|nudges|reminders>",
	Short:     "Run one scheduled pass now",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"morning", "midday", "evening", "blocks", "nudges", "reminders"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		if a.cfg.RequireTelegram() == nil {
			tg, err := bot.New(a.cfg.TelegramToken, a.orch, a.svc.Settings, float64(a.cfg.SendRatePerSec), logging.Component(a.log, "bot"))
			if err != nil {
				return err
			}
			a.out.target = tg
		}

		now := time.Now().In(a.cfg.Location)
		var job service.Job
		switch args[0] {
		case "morning":
			job = a.passJob(a.briefings.Morning)
		case "midday":
			job = a.passJob(a.briefings.Midday)
		case "evening":
			job = a.passJob(a.briefings.Evening)
		case "blocks":
			job = a.blockSweep
		case "nudges":
			job = a.nudgeSweep
		case "reminders":
			job = a.reminderSweep
		default:
			return fmt.Errorf("unknown pass %q", args[0])
		}
		return job(ctx, now)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Regenerate and print today's day plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		plan, err := a.svc.Plans.Generate(ctx, time.Now().In(a.cfg.Location))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan for %s (%d blocks)\n", plan.Date, len(plan.Blocks))
		for _, b := range plan.Blocks {
			fmt.Fprintf(out, "  %s-%s  %-5s  %s\n", b.Start, b.End, b.Type, b.Label)
		}
		return nil
	},
}

var sayCmd = &cobra.Command{
	Use:   "say <message...>",
	Short: "Send a message to the agent from the terminal and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		reply, err := a.orch.HandleMessage(ctx, 0, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}
