package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/gemkey/internal/secrets"
	"github.com/tsukumogami/gemkey/internal/userconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gemkey configuration",
	Long: `Manage gemkey configuration settings.

Configuration is stored in ~/.gemkey/config.toml. API keys are never
written there; use arguments, stdin or the GEMINI_API_KEY variables.

Available settings:
  backend        Key probe transport (rest, sdk)
  lang           Message language (en, pt-BR)
  model          Gemini model used by the sdk backend
  probe_timeout  Per-key validation timeout (e.g. 15s)

Examples:
  gemkey config get lang
  gemkey config set lang pt-BR
  gemkey config list`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := userconfig.Load()
		if err != nil {
			fatal(fmt.Errorf("failed to load config: %w", err), ExitGeneral)
		}

		value, ok := cfg.Get(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys(os.Stderr)
			exitWithCode(ExitUsage)
		}

		fmt.Fprintln(cmd.OutOrStdout(), value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Examples:
  gemkey config set backend sdk
  gemkey config set probe_timeout 30s`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		cfg, err := userconfig.Load()
		if err != nil {
			fatal(fmt.Errorf("failed to load config: %w", err), ExitGeneral)
		}

		if err := cfg.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys(os.Stderr)
			exitWithCode(ExitUsage)
		}

		if err := cfg.Save(); err != nil {
			fatal(fmt.Errorf("failed to save config: %w", err), ExitGeneral)
		}

		normalized, _ := cfg.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", strings.ToLower(key), normalized)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show settings and which key variables are set",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := userconfig.Load()
		if err != nil {
			fatal(fmt.Errorf("failed to load config: %w", err), ExitGeneral)
		}
		printConfigList(cmd.OutOrStdout(), cfg)
	},
}

// printConfigList writes every setting followed by the key variables. Key
// values are never printed, only whether they are set.
func printConfigList(w io.Writer, cfg *userconfig.Config) {
	for _, k := range sortedConfigKeys() {
		value, _ := cfg.Get(k)
		if value == "" {
			value = "(default)"
		}
		fmt.Fprintf(w, "%-14s %s\n", k, value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "API key variables:")
	infos := secrets.KnownKeys()
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	for _, info := range infos {
		state := "not set"
		if secrets.IsSet(info.Name) {
			state = "set"
		}
		fmt.Fprintf(w, "  %d  %-32s %s\n", info.Slot, strings.Join(info.EnvVars, ", "), state)
	}
}

func sortedConfigKeys() []string {
	keys := userconfig.AvailableKeys()
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	return sorted
}

func printAvailableKeys(w io.Writer) {
	keys := userconfig.AvailableKeys()
	for _, k := range sortedConfigKeys() {
		fmt.Fprintf(w, "  %s - %s\n", k, keys[k])
	}
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
