package cmd

import (
	"context"
	"strings"

	configcmd "github.com/Iron-Ham/moyu/internal/cmd/config"
	"github.com/Iron-Ham/moyu/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "moyu",
	Short: "摸鱼办: a slacking-office dashboard for the terminal",
	Long: `moyu shows today's date, countdowns to the weekend and the next
holidays, a rotating slacking fact, tip and joke, the day's almanac and
an off-work countdown.

Run without a subcommand to open the terminal dashboard.`,
	SilenceUsage: true,
	RunE:         runStart,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/moyu/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	configcmd.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MOYU")
	// Replace dots with underscores for nested keys in env vars
	// e.g., MOYU_WORKOUT_END_HOUR for workout.end_hour
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// commandContext returns cmd's context, or Background for commands run
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
