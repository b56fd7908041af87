package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/intelligence"
	"github.com/alexanderramin/cadence/internal/llm"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Path(configFlag(os.Args[1:])))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr so stdout stays clean for --json and the MCP stdio
	// transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	stores := service.SQLiteStores(database)
	if cfg.Signals.Backend == config.BackendMongo {
		signals, disconnect, err := openMongoSignals(ctx, cfg)
		if err != nil {
			return err
		}
		defer disconnect()
		stores.Signals = signals
	}
	stores.Signals = repository.NewCachedSignalRepo(stores.Signals, cfg.Signals.CacheTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs := service.NewServices(stores, analysisSettings(cfg), service.Options{
		Generator: suggestionGenerator(logger),
		Stages: service.MultiPipelineObserver{
			service.NewLogPipelineObserver(logger),
			service.NewMetricsPipelineObserver(reg),
		},
		UseCases: service.NewSlogUseCaseObserver(logger),
	})

	a := cli.NewApp(svcs, cfg, logger)
	a.Registry = reg
	a.Version = version
	a.Interactive = isTerminal(os.Stdin) && isTerminal(os.Stdout)

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

// configFlag pulls --config out of args before the command tree exists,
// since the services it configures have to be wired first.
func configFlag(args []string) string {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func analysisSettings(cfg *config.Config) service.AnalysisSettings {
	return service.AnalysisSettings{
		Capacity: scheduler.CapacityConfig{
			WeeklyHoursAvailable:   cfg.Capacity.WeeklyHoursAvailable,
			MaxProjectHoursPerWeek: cfg.Capacity.MaxProjectHoursPerWeek,
		},
		Policy:              scheduler.DeferralPolicy(cfg.Capacity.DeferralPolicy),
		SignalLookbackDays:  cfg.Signals.LookbackDays,
		SignalLimit:         cfg.Signals.Limit,
		DeadlineHorizonDays: cfg.Signals.DeadlineHorizonDays,
		Workers:             cfg.Ranking.Workers,
	}
}

// suggestionGenerator uses the local model when CADENCE_LLM_ENABLED is set
// and the fixed fallback suggestion otherwise.
func suggestionGenerator(logger *slog.Logger) app.SuggestionGenerator {
	llmCfg := llm.LoadConfig()
	if !llmCfg.Enabled {
		return intelligence.NewStaticSuggestionGenerator()
	}
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	return intelligence.NewLLMSuggestionGenerator(llm.NewOllamaClient(llmCfg, observer))
}

func openMongoSignals(ctx context.Context, cfg *config.Config) (repository.SignalRepo, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Signals.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	disconnect := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}

	repo := repository.NewMongoSignalRepo(client.Database(cfg.Signals.MongoDatabase).Collection(cfg.Signals.MongoCollection))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		disconnect()
		return nil, nil, err
	}
	return repo, disconnect, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
