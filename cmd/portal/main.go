package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/school-portal/internal/app"
	"github.com/Spok95/school-portal/internal/bot"
	"github.com/Spok95/school-portal/internal/config"
	"github.com/Spok95/school-portal/internal/jobs"
	"github.com/Spok95/school-portal/internal/logging"
	"github.com/Spok95/school-portal/internal/notify"
	"github.com/Spok95/school-portal/internal/observability"
	"github.com/Spok95/school-portal/internal/store"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer lg.Closer()
	log := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := store.OptionsFrom(cfg, log)
	st := store.New(opts)
	if err := st.Seed(ctx); err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	sessions := bot.NewSessions()

	var api *tgbotapi.BotAPI
	var sender notify.Sender = notify.LogSender{Log: log}
	if cfg.BotToken != "" {
		api, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			observability.CaptureErr(err)
			log.Fatal("telegram", zap.Error(err))
		}
		sender = notify.Telegram{Bot: api}
	} else {
		log.Warn("BOT_TOKEN is empty, telegram front-end disabled")
	}

	notifier := notify.New(sender, sessions, cfg.AdminChatIDs, log)
	notifier.Attach(st)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.ServeHTTP(gctx, cfg.HTTPAddr, app.Routes(st, log), log) })
	g.Go(func() error { return notifier.Run(gctx) })
	g.Go(func() error {
		r := jobs.New(gctx, log)
		jobs.StartFeeJobs(r, st, opts.Now, cfg.OverdueSweepInterval, cfg.ReconcileInterval, log)
		r.Wait()
		return nil
	})
	if api != nil {
		b := bot.New(api, st, sessions, log, cfg.Location)
		b.ArchiveTo(cfg.ExportDir)
		g.Go(func() error { return b.Run(gctx) })
	}

	log.Info("portal started", zap.String("version", version), zap.String("env", cfg.Env))
	if err := g.Wait(); err != nil {
		observability.CaptureErr(err)
		log.Error("stopped with error", zap.Error(err))
		return
	}
	log.Info("portal stopped")
}
