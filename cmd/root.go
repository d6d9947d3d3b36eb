package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/courtside/courtside/pkg/config"
	"github.com/courtside/courtside/pkg/controllers"
	"github.com/courtside/courtside/pkg/headless"
	"github.com/courtside/courtside/pkg/league"
	"github.com/courtside/courtside/pkg/logger"
	"github.com/courtside/courtside/pkg/stream"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "Terminal client for the courtside reasoning agent",
	Long: `Courtside streams answers about rosters, standings, schedules and
box scores from a remote reasoning agent, showing the agent's tool calls
and thinking as it works.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if err := logger.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()

		transport := stream.NewTransport(settings.Agent.URL)
		session := controllers.NewSessionController(transport, settings.Agent.UserID)

		if viper.GetBool("headless") {
			prompt := viper.GetString("prompt")
			if err := headless.RunHeadless(session, prompt); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		lookups := league.NewClientWithTimeout(settings.League.URL, settings.League.Timeout)
		if err := runInteractive(session, lookups, viper.GetString("prompt")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".courtside/settings.yaml", "config file")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "submit a prompt directly instead of reading from the terminal")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().BoolP("headless", "H", false, "run one prompt and exit (requires --prompt)")
	viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))

	rootCmd.PersistentFlags().Bool("show-steps", true, "print the agent's intermediate steps while it works")
	viper.BindPFlag("show_steps", rootCmd.PersistentFlags().Lookup("show-steps"))

	rootCmd.PersistentFlags().String("user", "", "user id sent with every agent request")
	viper.BindPFlag("agent.user_id", rootCmd.PersistentFlags().Lookup("user"))

	config.SetDefaults()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./.courtside")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
