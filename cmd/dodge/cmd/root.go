package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gronsdodgeball/dodge/internal/adapter/google"
	"github.com/gronsdodgeball/dodge/internal/classify"
	"github.com/gronsdodgeball/dodge/internal/core"
	"github.com/gronsdodgeball/dodge/internal/util"
)

var (
	cfgFile string
	source  core.SessionSource
)

var rootCmd = &cobra.Command{
	Use:   "dodge",
	Short: "Upcoming Grons Dodgeball sessions in your terminal",
	Long: `dodge pulls the club's session calendar and shows what's coming up,
with the same badges the website uses (Outdoors, RSVP only, Youth) plus
route and ticket links.

The default command prints the upcoming sessions; 'dodge ui' opens the
interactive timeline.`,
	PersistentPreRunE: initSource,
	RunE:              listSessions,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dodge/config.yaml)")
	rootCmd.PersistentFlags().String("calendar", "", "Calendar ID to read (overrides config)")
	rootCmd.PersistentFlags().String("api-key", "", "Google API key for the public calendar")

	viper.BindPFlag("calendar_id", rootCmd.PersistentFlags().Lookup("calendar"))
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "dodge")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DODGE")
	viper.AutomaticEnv()

	viper.SetDefault("auth", "key")
	viper.SetDefault("credentials_file", "credentials.json")
	viper.SetDefault("token_file", "token.json")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initSource builds the calendar adapter for commands that fetch.
func initSource(cmd *cobra.Command, args []string) error {
	// Commands that don't touch the calendar skip adapter setup.
	name := cmd.Name()
	if name == "help" || name == "completion" || name == "auth" || name == "config" ||
		(cmd.Parent() != nil && cmd.Parent().Name() == "config") {
		return nil
	}

	calendarID := viper.GetString("calendar_id")
	if calendarID == "" {
		return fmt.Errorf("no calendar configured\n\nSet calendar_id in your config or pass --calendar.\nRun 'dodge config init' to create a starter config")
	}

	switch mode := viper.GetString("auth"); mode {
	case "key":
		apiKey := viper.GetString("api_key")
		if apiKey == "" {
			return fmt.Errorf("no API key configured\n\nSet api_key in your config, pass --api-key, or export DODGE_API_KEY")
		}
		adapter, err := google.NewWithAPIKey(cmd.Context(), apiKey, calendarID)
		if err != nil {
			return err
		}
		source = adapter
		return nil

	case "oauth":
		credsFile := expandPath(viper.GetString("credentials_file"))
		tokenFile := expandPath(viper.GetString("token_file"))
		adapter, err := google.NewWithOAuth(cmd.Context(), credsFile, tokenFile, calendarID)
		if err != nil {
			return err
		}
		source = adapter
		return nil

	default:
		return fmt.Errorf("unknown auth mode: %s (supported: key, oauth)", mode)
	}
}

func listSessions(cmd *cobra.Command, args []string) error {
	now := time.Now()

	raw, err := source.FetchUpcoming(cmd.Context(), now)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}

	sessions := classify.All(raw, now)

	fmt.Println("🟠 Upcoming sessions")
	fmt.Println("─────────────────────────────────────────────────")

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	for _, s := range sessions {
		fmt.Println()
		printSession(s)
	}

	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("Total: %d sessions\n", len(sessions))

	return nil
}

// printSession writes one classified session in the list format.
func printSession(s classify.Session) {
	if badge := s.Category.Label(); badge != "" {
		fmt.Printf("  [%s] %s\n", badge, s.Title)
	} else {
		fmt.Printf("  %s\n", s.Title)
	}

	fmt.Printf("  📆 When:    %s, %s\n", s.DateLabel, s.TimeLabel)

	if s.Location != "" {
		fmt.Printf("  📍 Where:   %s\n", s.Location)
	}
	if s.MapsURL != "" {
		fmt.Printf("  🗺️  Route:   %s\n", util.MakeHyperlink(s.MapsURL, "open in Maps"))
	}
	if s.TicketURL != "" {
		fmt.Printf("  🎟️  Tickets: %s\n", util.MakeHyperlink(s.TicketURL, "buy a ticket"))
	}
	if s.Category == classify.CategoryRsvpOnly {
		fmt.Printf("  ℹ️  Access via ACLO; no ticket sale\n")
	}
	if s.InProgress {
		fmt.Printf("  🟢 IN PROGRESS\n")
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
