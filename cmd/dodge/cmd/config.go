package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the dodge configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// fileConfig is the on-disk shape of the config file.
type fileConfig struct {
	CalendarID      string `yaml:"calendar_id"`
	APIKey          string `yaml:"api_key,omitempty"`
	Auth            string `yaml:"auth"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	TokenFile       string `yaml:"token_file,omitempty"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "dodge", "config.yaml")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath()
	if cfgFile != "" {
		path = cfgFile
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	starter := fileConfig{
		CalendarID: "your-calendar-id@group.calendar.google.com",
		APIKey:     "your-google-api-key",
		Auth:       "key",
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("✅ Config written to %s\n", path)
	fmt.Println("\nEdit it to set your calendar ID and API key.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	resolved := fileConfig{
		CalendarID:      viper.GetString("calendar_id"),
		APIKey:          maskSecret(viper.GetString("api_key")),
		Auth:            viper.GetString("auth"),
		CredentialsFile: viper.GetString("credentials_file"),
		TokenFile:       viper.GetString("token_file"),
	}

	data, err := yaml.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("# %s\n", viper.ConfigFileUsed())
	}
	fmt.Print(string(data))
	return nil
}

// maskSecret hides all but the last four characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
