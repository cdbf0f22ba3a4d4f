package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skerry/tidedash/pkg/admiralty"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tidetool",
	Short: "Query Admiralty tidal event predictions from the terminal",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tidetool.yaml)")
	rootCmd.PersistentFlags().String("station", string(admiralty.Leith), "station identifier to query")
	rootCmd.PersistentFlags().Int("days", 4, "forecast horizon in days (1 through 7)")
	viper.BindPFlag("station", rootCmd.PersistentFlags().Lookup("station"))
	viper.BindPFlag("days", rootCmd.PersistentFlags().Lookup("days"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".tidetool" (without extension).
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tidetool")
	}

	// ADMIRALTY_API_KEY in the environment satisfies the api_key setting.
	viper.SetEnvPrefix("admiralty")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() (*admiralty.Client, error) {
	key := viper.GetString("api_key")
	if key == "" {
		return nil, fmt.Errorf("no API key configured; set ADMIRALTY_API_KEY or api_key in ~/.tidetool.yaml")
	}
	return &admiralty.Client{Key: key}, nil
}

func fetchTable() (*admiralty.EventTable, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return client.TidalEvents(&admiralty.EventQuery{
		Station: admiralty.Station(viper.GetString("station")),
		Days:    viper.GetInt("days"),
	})
}
