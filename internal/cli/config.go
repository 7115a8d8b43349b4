package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

var configForce bool

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile, err := config.ExpandPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil && !configForce {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'jobad config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Adjust scoring weights or point [dictionary] path at your own terms")
	fmt.Println("  2. Run 'jobad analyse ad.txt' to score a job ad")
	fmt.Println("  3. Set [history] enabled = true to keep past results")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.ExpandPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Printf("# No config file at %s; built-in defaults:\n", path)
		fmt.Println("# Run 'jobad config init' to create one.")
		fmt.Println()
		return config.Default().Write(os.Stdout)
	}

	fmt.Printf("# Config file: %s\n\n", path)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# Job ad analyser configuration

[dictionary]
# Path to a .csv or .toml term dictionary. Empty uses the built-in terms.
# 'jobad terms --export terms.toml' writes the built-in list as a start.
path = ""

[scoring]
base_points = 10.0      # penalty points per flagged occurrence
length_baseline = 100.0 # ads of this many words are scored unscaled

# Must sum to 1.0
[scoring.category_weights]
gender-coded = 0.25
ageist = 0.25
ableist = 0.25
culture-fit = 0.15
socioeconomic = 0.05
racial = 0.05

[scoring.severity_multipliers]
critical = 2.0
high = 1.5
medium = 1.0
low = 0.5

[scoring.grade_thresholds]
excellent = 90.0
good = 75.0
fair = 60.0

[analysis]
segmenter = "unicode"   # unicode, regex or window
max_contexts = 3        # example sentences kept per term
context_window = 80     # characters either side when segmenter = "window"
positive_indicators = [
  "equal opportunity employer",
  "diverse",
  "diversity",
  "inclusive",
  "accommodations available",
  "flexible working",
  "parental leave",
  "accessibility",
  "underrepresented",
  "all backgrounds",
  "equivalent experience",
]

[database]
path = "~/.local/share/jobad/history.db"

[history]
enabled = false         # save every analysis

[fetch]
timeout_seconds = 30
user_agent = "Mozilla/5.0 (compatible; jobad-analyser/1.0)"
requests_per_second = 1.0

[server]
addr = ":8080"
allowed_origins = ["*"]

[batch]
workers = 4
timeout_seconds = 30

[mcp]
enabled = true
transport = "stdio"
`
