// Command layout draws an LFAA station layout in the terminal and runs the
// geometric queries against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/config"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/geometry"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/render"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/service"
	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/station"
)

type options struct {
	station   string
	parent    string
	name      string
	lfaa      string
	distance  string
	invert    bool
	ref       string
	boundary  bool
	cardinal  bool
	principal bool
	plain     bool
	metrics   bool
	dryRun    bool

	arrayFile string
	coordsDir string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "layout",
		Short:         "Draw an LFAA station layout and query it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if o.ref != "" && o.distance == "" {
				return errors.New("--ref needs --distance")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.draw(cmd.Context(), cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.arrayFile, "config", "", "array configuration file (default $ARRAY_CONFIG_FILE)")
	pf.StringVar(&o.coordsDir, "coords", "", "directory of coordinate tables (default $COORDS_DIR)")
	pf.StringVar(&o.logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	f := root.Flags()
	f.StringVarP(&o.station, "station", "s", "", `station name, or "substation"`)
	f.StringVar(&o.parent, "parent", "", "parent station of a substation")
	f.StringVar(&o.name, "name", "", "display name of a substation")
	f.StringVar(&o.lfaa, "lfaa", "", "comma separated LFAA names or globs selecting substation members")
	f.StringVarP(&o.distance, "distance", "d", "", `radius for the filter or neighbour query, e.g. "10" or "10m"`)
	f.BoolVar(&o.invert, "invert", false, "list the antennas outside the radius")
	f.StringVar(&o.ref, "ref", "", "reference LFAA for the neighbour query")
	f.BoolVar(&o.boundary, "boundary", false, "draw the station boundary")
	f.BoolVar(&o.cardinal, "cardinal", false, "draw the cardinal direction")
	f.BoolVar(&o.principal, "principal", false, "draw the principal direction")
	f.BoolVar(&o.plain, "plain", false, "disable colours")
	f.BoolVar(&o.metrics, "metrics", false, "print a metrics and cache summary on exit")
	_ = root.MarkFlagRequired("station")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the configured stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.list(cmd.Context(), cmd.OutOrStdout())
		},
	}

	publish := &cobra.Command{
		Use:   "publish",
		Short: "Copy the local configuration and coordinate tables to DynamoDB and S3",
		Long: "Publish reads the array configuration file and the coordinate directory and " +
			"writes them to $ARRAY_CONFIG_TABLE and $COORDS_BUCKET, whichever are set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.publish(cmd.Context(), cmd.OutOrStdout())
		},
	}
	publish.Flags().BoolVar(&o.dryRun, "dry-run", false, "read and check every table without writing")

	root.AddCommand(list, publish)
	return root
}

// config applies the flag overrides onto the environment configuration.
func (o *options) config() *config.Config {
	cfg := config.LoadFromEnv()
	if o.arrayFile != "" {
		config.WithArrayConfigFile(o.arrayFile)(cfg)
	}
	if o.coordsDir != "" {
		config.WithCoordsDir(o.coordsDir)(cfg)
	}
	if o.logLevel != "" {
		config.WithLogLevel(o.logLevel)(cfg)
	}
	cfg.InitializeLogging()
	return cfg
}

// readConfig is config with a local file or directory given on the command
// line taking precedence over the remote sources of the environment.
func (o *options) readConfig() *config.Config {
	cfg := o.config()
	if o.arrayFile != "" {
		config.WithArrayConfigTable("")(cfg)
	}
	if o.coordsDir != "" {
		config.WithCoordsBucket("", "")(cfg)
		config.WithCoordsBaseURL("")(cfg)
	}
	config.WithMetrics(o.metrics)(cfg)
	return cfg
}

func (o *options) builder(ctx context.Context) (*service.Builder, error) {
	return service.NewFromConfig(ctx, o.readConfig(), config.GetCacheConfig(), prometheus.NewRegistry())
}

func (o *options) list(ctx context.Context, w io.Writer) error {
	builder, err := o.builder(ctx)
	if err != nil {
		return err
	}
	names, err := builder.ValidStations(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Join(names, "\n"))
	return nil
}

func (o *options) publish(ctx context.Context, w io.Writer) error {
	n, err := service.PublishFromConfig(ctx, o.config(), o.dryRun)
	if err != nil {
		return err
	}
	if o.dryRun {
		fmt.Fprintf(w, "checked %d stations\n", n)
		return nil
	}
	fmt.Fprintf(w, "published %d stations\n", n)
	return nil
}

func (o *options) draw(ctx context.Context, w io.Writer) error {
	builder, err := o.builder(ctx)
	if err != nil {
		return err
	}

	st, err := builder.Build(ctx, station.ParseSpec(o.station, o.parent, o.name, o.lfaa))
	if err != nil {
		return err
	}
	log.Debug().Stringer("station", st).Msg("Loaded station")

	fmt.Fprint(w, render.Plot(st.Layout(), render.Options{
		Plain:     o.plain,
		Boundary:  o.boundary,
		Cardinal:  o.cardinal,
		Principal: o.principal,
	}))

	if err := o.query(st, w, builder); err != nil {
		return err
	}

	if o.metrics {
		fmt.Fprintln(w)
		if err := builder.Metrics().WriteSummary(w); err != nil {
			return err
		}
		if stats := builder.CacheStats(); stats != nil {
			fmt.Fprintf(w, "cache: hits=%d misses=%d entries=%d\n", stats["hits"], stats["misses"], stats["entries"])
		}
	}
	return nil
}

func (o *options) query(st *station.Station, w io.Writer, builder *service.Builder) error {
	if o.distance == "" {
		return nil
	}
	radius, err := geometry.ParseDistance(o.distance)
	if err != nil {
		return err
	}

	var (
		op    string
		names []string
	)
	if o.ref != "" {
		op = "neighbours"
		names, err = st.Neighbours(o.ref, radius)
	} else {
		op = "filter"
		names, err = st.FilterByDistance(radius, o.invert)
	}
	builder.ObserveQuery(op, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s (%d): %s\n", op, len(names), strings.Join(names, ", "))
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var unknown *models.UnknownStationError
	if errors.As(err, &unknown) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Fprintln(os.Stderr, "layout:", err)
	os.Exit(1)
}
