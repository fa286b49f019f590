package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"travel-tracker/internal/api"
	"travel-tracker/internal/config"
	"travel-tracker/internal/domain"
)

// Builder creates the business API for a loaded configuration. The returned
// function releases whatever the API holds open.
type Builder func(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	loader *config.Loader
	build  Builder
	in     io.Reader
	out    io.Writer

	config *config.Config
	app    *App
	close  func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, build Builder) *RootCommand {
	root := &RootCommand{
		loader: loader,
		build:  build,
		in:     os.Stdin,
		out:    os.Stdout,
	}

	root.cmd = &cobra.Command{
		Use:   "trips",
		Short: "Record and review your trips",
		Long: `trips records journeys: live trips tracked from your position, and
trips entered by hand. History stays on this machine.

EXAMPLES:
  trips login kerala                       # Sign in (prompts for the password)
  trips login --account demo@example.com   # Sign in with a saved account
  trips dashboard                          # Start, stop and confirm live trips
  trips add --date 2025-03-01 --mode Bus --distance "12 km" --purpose Work
  trips history                            # Show your trips
  trips export --format pdf                # Export your trips
  trips search "Fort Kochi"                # Look up a place

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment
  variables > config file (~/.trips/config.yaml) > defaults.

  Environment variables use the TRIPS_ prefix with the config key in upper
  case, for example TRIPS_STORAGE_DIR, TRIPS_TRIP_DEFAULT_MODE,
  TRIPS_LOCATION_LAT, TRIPS_GEOCODING_BASE_URL, TRIPS_APP_TIMEOUT and
  TRIPS_EXPORT_DIR. TRIPS_ENV selects development, testing or production
  storage. TRIPS_DEBUG enables debug output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO replaces the input and output streams
func (r *RootCommand) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
	r.cmd.SetOut(out)
	r.cmd.SetErr(out)
}

// Execute runs the command line and releases the API afterwards
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	defer func() {
		if r.close != nil {
			_ = r.close()
			r.close = nil
		}
	}()
	return r.cmd.ExecuteContext(ctx)
}

// Config returns the configuration loaded for the last command
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (default ~/.trips/config.yaml)")

	// Storage configuration
	flags.String("storage-dir", "", "Storage directory (overrides TRIPS_STORAGE_DIR)")
	flags.String("storage-file", "", "Storage filename (overrides TRIPS_STORAGE_FILENAME)")
	flags.Duration("query-timeout", 0, "Storage query timeout (overrides TRIPS_STORAGE_QUERY_TIMEOUT)")

	// Trip configuration
	flags.String("default-mode", "", "Transport mode for live trips (overrides TRIPS_TRIP_DEFAULT_MODE)")
	flags.String("default-purpose", "", "Purpose for live trips (overrides TRIPS_TRIP_DEFAULT_PURPOSE)")

	// Location configuration
	flags.Float64("lat", 0, "Fixed device latitude (overrides TRIPS_LOCATION_LAT)")
	flags.Float64("lng", 0, "Fixed device longitude (overrides TRIPS_LOCATION_LNG)")

	// Geocoding configuration
	flags.String("geocoding-url", "", "Place search service URL (overrides TRIPS_GEOCODING_BASE_URL)")

	// Application configuration
	flags.Duration("timeout", 0, "Command timeout (overrides TRIPS_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TRIPS_APP_VERBOSE)")

	// Export configuration
	flags.String("export-dir", "", "Export directory (overrides TRIPS_EXPORT_DIR)")
	flags.String("export-format", "", "Default export format (overrides TRIPS_EXPORT_DEFAULT_FORMAT)")
}

// overridesFromFlags collects the flags that were set on the command line
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	durationFlag := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	floatFlag := func(name string) *float64 {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetFloat64(name)
		return &v
	}

	overrides.StorageDir = stringFlag("storage-dir")
	overrides.StorageFilename = stringFlag("storage-file")
	overrides.QueryTimeout = durationFlag("query-timeout")
	overrides.DefaultMode = stringFlag("default-mode")
	overrides.DefaultPurpose = stringFlag("default-purpose")
	overrides.Lat = floatFlag("lat")
	overrides.Lng = floatFlag("lng")
	overrides.GeocodingURL = stringFlag("geocoding-url")
	overrides.Timeout = durationFlag("timeout")
	overrides.ExportDir = stringFlag("export-dir")
	overrides.ExportFormat = stringFlag("export-format")

	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	return overrides
}

// setup loads the configuration and builds the API before any command runs
func (r *RootCommand) setup(ctx context.Context) error {
	loader := r.loader
	if path, _ := r.cmd.PersistentFlags().GetString("config"); path != "" {
		loader = config.NewLoaderWithFile(path)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	if cfg.Application.Verbose {
		os.Setenv("TRIPS_DEBUG", "1")
	}

	businessAPI, closeFn, err := r.build(ctx, cfg)
	if err != nil {
		return err
	}

	r.config = cfg
	r.close = closeFn
	r.app = NewAppWithIO(businessAPI, cfg, r.in, r.out)
	return nil
}

// getAppTimeout returns the configured command timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// withTimeout runs fn under the configured command timeout
func (r *RootCommand) withTimeout(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return fn(ctx)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(r.sessionCommands()...)
	r.cmd.AddCommand(r.tripCommands()...)
	r.cmd.AddCommand(r.placeCommands()...)
	r.cmd.AddCommand(r.adminCommand())
}

func (r *RootCommand) sessionCommands() []*cobra.Command {
	var password, code, account string

	loginCmd := &cobra.Command{
		Use:   "login [<username> | --account <email>]",
		Short: "Sign in",
		Long: `Sign in with a username and password, or pick one of the saved
accounts with --account. Without arguments the saved accounts are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				session := NewSessionCommand(r.app)
				switch {
				case account != "" && len(args) > 0:
					return fmt.Errorf("give either a username or --account, not both")
				case account != "":
					return session.LoginAs(ctx, account)
				case len(args) == 0:
					session.ListAccounts()
					return nil
				}
				return session.Login(ctx, args[0], password)
			})
		},
	}
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&account, "account", "", "Sign in with a saved account by email")

	adminLoginCmd := &cobra.Command{
		Use:   "admin-login <username>",
		Short: "Sign in as an administrator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).AdminLogin(ctx, args[0], password, code)
			})
		},
	}
	adminLoginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	adminLoginCmd.Flags().StringVar(&code, "code", "", "Verification code (prompted when omitted)")

	signupCmd := &cobra.Command{
		Use:   "signup <name> <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).SignUp(ctx, args[0], args[1])
			})
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).Logout(ctx)
			})
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewSessionCommand(r.app).WhoAmI(ctx)
			})
		},
	}

	return []*cobra.Command{loginCmd, adminLoginCmd, signupCmd, logoutCmd, whoamiCmd}
}

func (r *RootCommand) tripCommands() []*cobra.Command {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Track live trips interactively",
		Long: `Open the interactive dashboard. A live trip exists only while the
dashboard is open: start it, stop it, then confirm it to save it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive, so no command timeout.
			return NewDashboardCommand(r.app).Execute(cmd.Context())
		},
	}

	var input domain.ManualTripInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trip by hand",
		Long: fmt.Sprintf(`Record a trip by hand. Date, mode, distance and purpose are required.

Modes:    %s
Purposes: %s`, joinModes(), joinPurposes()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTripCommand(r.app).Add(ctx, &input)
			})
		},
	}
	addCmd.Flags().StringVar(&input.Date, "date", "", "Trip date")
	addCmd.Flags().StringVar(&input.Mode, "mode", "", "Transport mode")
	addCmd.Flags().StringVar(&input.Distance, "distance", "", "Distance, e.g. \"12 km\"")
	addCmd.Flags().StringVar(&input.Purpose, "purpose", "", "Trip purpose")
	addCmd.Flags().StringVar(&input.Notes, "notes", "", "Notes, shown as the destination")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show your trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTripCommand(r.app).History(ctx)
			})
		},
	}

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export your trips",
		Long: `Export your trips as JSON or PDF. Without --out the file is written to
the export directory as <Your_Name>_trips.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewTripCommand(r.app).Export(ctx, format, out)
			})
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "", "json or pdf (default from config)")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory")

	return []*cobra.Command{dashboardCmd, addCmd, historyCmd, exportCmd}
}

func (r *RootCommand) placeCommands() []*cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find a place by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewPlaceCommand(r.app).Search(ctx, args)
			})
		},
	}

	reverseCmd := &cobra.Command{
		Use:   "reverse [<lat> <lng>]",
		Short: "Name the place at a position, or at the map centre",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				if len(args) == 0 {
					return NewPlaceCommand(r.app).ReverseCenter(ctx)
				}
				return NewPlaceCommand(r.app).Reverse(ctx, args[0], args[1])
			})
		},
	}

	return []*cobra.Command{searchCmd, reverseCmd}
}

func (r *RootCommand) adminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator views",
	}

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewAdminCommand(r.app).Users(ctx)
			})
		},
	}

	userCmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user's trips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewAdminCommand(r.app).User(ctx, args[0])
			})
		},
	}

	var format, out string
	downloadCmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Export a user's trips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewAdminCommand(r.app).Download(ctx, args[0], format, out)
			})
		},
	}
	downloadCmd.Flags().StringVar(&format, "format", "", "json or pdf (default from config)")
	downloadCmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory")

	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show featured destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewAdminCommand(r.app).Analytics(ctx)
			})
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show the transport system report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withTimeout(cmd, func(ctx context.Context) error {
				return NewAdminCommand(r.app).Health(ctx)
			})
		},
	}

	adminCmd.AddCommand(usersCmd, userCmd, downloadCmd, analyticsCmd, healthCmd)
	return adminCmd
}
