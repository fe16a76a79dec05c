package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/database"
	"birdsong-quiz/internal/importer"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"
	"birdsong-quiz/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runtime holds what every import command needs, set up before the command runs
type runtime struct {
	cfg     *config.Config
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		logger.Get().Error("Import failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rt := &runtime{}
	rootCmd := &cobra.Command{
		Use:           "import",
		Short:         "Import regions, species, observations and recordings from eBird and xeno-canto",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
	}

	rootCmd.AddCommand(
		regionsCommand(rt),
		speciesCommand(rt),
		observationsCommand(rt),
		recordingsCommand(rt),
		beginnerListCommand(rt),
	)
	return rootCmd
}

func (rt *runtime) setup(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	rt.cfg = cfg

	rt.db, err = database.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		return err
	}
	rt.metrics, err = metrics.New()
	return err
}

func (rt *runtime) close() {
	if rt.db != nil {
		rt.db.Close()
	}
	_ = logger.Sync()
}

// service builds the import service with the sources the command needs.
func (rt *runtime) service(needEBird, needXenoCanto bool) (*importer.Service, error) {
	var (
		taxonomy   importer.TaxonomySource
		recordings importer.RecordingSource
	)
	if needEBird {
		client, err := importer.NewEBirdClient(rt.cfg.Importer, rt.metrics)
		if err != nil {
			return nil, err
		}
		taxonomy = client
	}
	if needXenoCanto {
		client, err := importer.NewXenoCantoClient(rt.cfg.Importer, rt.metrics)
		if err != nil {
			return nil, err
		}
		recordings = client
	}

	repos := importer.Repositories{
		Regions:      repository.NewRegionDatabaseAdapter(rt.db),
		Species:      repository.NewSpeciesDatabaseAdapter(rt.db),
		Observations: repository.NewObservationDatabaseAdapter(rt.db),
		Recordings:   repository.NewRecordingDatabaseAdapter(rt.db),
		SpeciesLists: repository.NewSpeciesListDatabaseAdapter(rt.db),
		Tx:           repository.NewTransactionManagerAdapter(rt.db),
	}
	return importer.NewService(taxonomy, recordings, repos, rt.metrics, rt.cfg.Importer.Concurrency), nil
}

func printReport(cmd *cobra.Command, kind string, report *importer.ImportReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: fetched %d, imported %d, skipped %d\n",
		kind, report.Fetched, report.Imported, report.Skipped)
}

func regionsCommand(rt *runtime) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Import countries, or the subregions of an imported parent region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.service(true, false)
			if err != nil {
				return err
			}
			report, err := svc.ImportRegions(cmd.Context(), parent)
			printReport(cmd, "regions", report)
			return err
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", importer.WorldRegion,
		`Parent region code, e.g. "US" imports US states (default imports countries)`)
	return cmd
}

func speciesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "Import the eBird species taxonomy with localized names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.service(true, false)
			if err != nil {
				return err
			}
			report, err := svc.ImportSpecies(cmd.Context())
			printReport(cmd, "species", report)
			return err
		},
	}
}

func observationsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "observations <region>...",
		Short: "Import the species observed in each region",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.service(true, false)
			if err != nil {
				return err
			}
			report, err := svc.ImportObservations(cmd.Context(), args)
			printReport(cmd, "observations", report)
			return err
		},
	}
}

func recordingsCommand(rt *runtime) *cobra.Command {
	var skipExisting bool
	cmd := &cobra.Command{
		Use:   "recordings <region>...",
		Short: "Import xeno-canto recordings of the species observed in the regions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.service(false, true)
			if err != nil {
				return err
			}
			report, err := svc.ImportRecordings(cmd.Context(), args, skipExisting)
			printReport(cmd, "recordings", report)
			return err
		},
	}
	cmd.Flags().BoolVarP(&skipExisting, "skip-existing", "s", true,
		"Skip species that already have recordings")
	return cmd
}

func beginnerListCommand(rt *runtime) *cobra.Command {
	var (
		regions []string
		species []string
	)
	cmd := &cobra.Command{
		Use:   "beginner-list <name>",
		Short: "Create or replace an official beginner species list for regions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.service(false, false)
			if err != nil {
				return err
			}
			list, report, err := svc.CreateBeginnerList(cmd.Context(), args[0], regions, species)
			printReport(cmd, "beginner list species", report)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved list %d (%s)\n", list.ID, list.Name)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&regions, "region", "r", nil, "Region codes the list applies to")
	cmd.Flags().StringSliceVar(&species, "species", nil, "eBird species codes on the list")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}
