package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/api"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/config"
	dbconnection "AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/db_connection"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/league"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/simulator"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml configuration")
	command := flag.String("command", "serve", "one of: serve, migrate-up, migrate-down, standings")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	conn, db, err := dbconnection.NewDBConnection(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	switch *command {
	case "migrate-up":
		err = dbconnection.RunMigrations(db, cfg.Database.Migrations, dbconnection.Up)
	case "migrate-down":
		err = dbconnection.RunMigrations(db, cfg.Database.Migrations, dbconnection.Down)
	case "serve", "standings":
		var svc *league.Service
		svc, err = newService(cfg, conn)
		if err != nil {
			break
		}
		if *command == "serve" {
			err = serve(cfg, svc)
		} else {
			err = printStandings(os.Stdout, svc)
		}
	default:
		err = fmt.Errorf("unknown command %q", *command)
	}

	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("Command failed")
		db.Close()
		os.Exit(1)
	}
}

func newService(cfg *config.Config, conn *dbconnection.DBConnection) (*league.Service, error) {
	seed := cfg.Simulator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := simulator.NewSeeded(cfg.Simulator.Config, seed)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	log.Debug().Int64("seed", seed).Msg("simulator ready")
	return league.NewService(conn.League, conn.Playoffs, sim, cfg.App.PlayoffTeams), nil
}

func serve(cfg *config.Config, svc *league.Service) error {
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           api.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("app", cfg.App.Name).Msg("Starting server")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func printStandings(out io.Writer, svc *league.Service) error {
	leagues, err := svc.Leagues()
	if err != nil {
		return err
	}
	tables, err := svc.AllStandings()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range leagues {
		fmt.Fprintf(w, "%s %s\n", l.Name, l.Season)
		fmt.Fprintln(w, "#\tTeam\tGP\tW\tD\tL\tSF\tSA\tDiff\tPts\tWin%\t")
		for _, row := range tables[l.LeagueId] {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\t\n",
				row.Position, row.TeamName, row.Gp, row.W, row.D, row.L, row.Gf, row.Ga, row.Gd, row.Pts, row.WinPercentage)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
