package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/reviewagenda/internal/cli"
	"github.com/alexanderramin/reviewagenda/internal/config"
	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
	"github.com/alexanderramin/reviewagenda/internal/logging"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	agendaRepo := repository.NewSQLiteAgendaRepo(database)
	itemRepo := repository.NewSQLiteAgendaItemRepo(database)
	documentRepo := repository.NewSQLiteDocumentRepo(database)
	jobRepo := repository.NewSQLiteJobRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(),
	}

	registry := jobs.NewRegistry()
	service.RegisterJobHandlers(registry, logger)

	app := &cli.App{
		Agendas:   service.NewAgendaService(agendaRepo, uow, logger, observers...),
		Items:     service.NewItemService(itemRepo, uow, logger, observers...),
		Documents: service.NewDocumentService(documentRepo),
		Moves:     service.NewMoveService(uow, logger, observers...),
		Runner:    jobs.NewRunner(uow, registry, cfg.JobWorkers, logger),
		Jobs:      jobRepo,
	}

	// Prompts only make sense on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
