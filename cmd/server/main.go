package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	board "github.com/goliatone/go-board"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("board"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	conf := cfg.Raw().withDefaults()

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(conf))
	fmt.Println("============")

	db, err := openDatabase(ctx, conf)
	if err != nil {
		panic(err)
	}

	repo := board.NewRepositoryManager(db)
	repo.MustValidate()

	if err := seedCategories(ctx, repo); err != nil {
		panic(err)
	}

	store, err := sessionStore(conf)
	if err != nil {
		panic(err)
	}

	provider := board.NewUserProvider(repo.Users(),
		board.WithUserProviderLogger(newLoggerAdapter(lgr.GetLogger("credentials"))))

	sessions := board.NewSessionManager(repo.Users(), provider,
		board.WithSessionStore(store),
		board.WithSessionTTL(time.Duration(conf.Session.TTLHours)*time.Hour),
		board.WithSessionLogger(newLoggerAdapter(lgr.GetLogger("sessions"))),
	)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: conf.Debug,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	board.RegisterBoardRoutes(srv.Router().Group("/"),
		board.WithControllerLogger(newLoggerAdapter(lgr.GetLogger("http"))),
		board.WithControllerRepo(repo),
		board.WithControllerSessions(sessions),
		board.WithControllerMailer(board.NewDevMailer(newLoggerAdapter(lgr.GetLogger("mailer")))),
		board.WithControllerCookieName(conf.Session.CookieName),
		board.WithControllerBaseURL(conf.App.BaseURL),
		board.WithControllerUploadDir(conf.App.UploadDir),
		board.WithControllerDebug(conf.Debug),
	)

	srv.Serve(conf.Server.Address)

	WaitExitSignal()
}

func openDatabase(ctx context.Context, conf *BaseConfig) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, conf.Persistence.DSN)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := board.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func seedCategories(ctx context.Context, repo board.RepositoryManager) error {
	for _, name := range []string{"general", "questions", "announcements"} {
		if _, err := repo.Categories().Create(ctx, &board.Category{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func sessionStore(conf *BaseConfig) (board.SessionStore, error) {
	if conf.Session.RedisAddr == "" {
		return board.NewMemorySessionStore(), nil
	}

	return board.NewRedisSessionStore(board.RedisSessionConfig{
		Addr: conf.Session.RedisAddr,
		DB:   conf.Session.RedisDB,
	})
}

// loggerAdapter maps the structured app logger onto the package's printf
// shaped logging interface.
type loggerAdapter struct {
	logger glog.Logger
}

func newLoggerAdapter(logger glog.Logger) loggerAdapter {
	return loggerAdapter{logger: logger}
}

func (l loggerAdapter) Debug(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l loggerAdapter) Info(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l loggerAdapter) Error(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
