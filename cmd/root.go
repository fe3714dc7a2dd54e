package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/platforms/immunefi"
	"github.com/sw33tLie/genscope/pkg/whttp"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                                              
	  __ _  ___ _ __  ___  ___ ___  _ __   ___ 
	 / _' |/ _ \ '_ \/ __|/ __/ _ \| '_ \ / _ \
	| (_| |  __/ | | \__ \ (_| (_) | |_) |  __/
	 \__, |\___|_| |_|___/\___\___/| .__/ \___|
	 |___/                         |_|         

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genscope",
	Short: "Turn an Immunefi bounty page into structured scope data.",
	Long: LOGO + `genscope extracts the reward tiers and in-scope assets of an Immunefi bug bounty
program and prints them as JSON. Runs can be archived to a local database to
track how a program's scope and payouts change over time.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		utils.Log.Error(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.genscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	viper.BindPFlag("proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			utils.Log.Fatal(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".genscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("genscope")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setConfigDefaults()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			if err := viper.SafeWriteConfigAs(filepath.Join(home, ".genscope.yaml")); err != nil {
				utils.Log.Debugf("Could not create config file: %v", err)
			}
		} else {
			utils.Log.Warnf("Could not read config file: %v", err)
		}
	}

	// Init log library
	if err := utils.SetLogLevel(viper.GetString("loglevel")); err != nil {
		utils.Log.Fatal(err)
	}
}

func setConfigDefaults() {
	viper.SetDefault("immunefi.baseurl", immunefi.PLATFORM_URL)
	viper.SetDefault("http.timeout", whttp.DefaultTimeout)
	viper.SetDefault("http.retries", whttp.DefaultRetries)
	viper.SetDefault("http.useragent", whttp.DefaultUserAgent)
	viper.SetDefault("db.path", "")
}

// setupHTTP applies the http.* settings and the proxy flag to the shared client.
func setupHTTP() error {
	whttp.SetupClient(viper.GetInt("http.retries"), viper.GetDuration("http.timeout"))
	whttp.SetUserAgent(viper.GetString("http.useragent"))

	if proxy := viper.GetString("proxy"); proxy != "" {
		return whttp.SetupProxy(proxy)
	}
	return nil
}

// resolveDBPath prefers the --dbpath flag, then the db.path config key.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = viper.GetString("db.path")
	}
	return utils.GetAbsDBPath(dbPath)
}
