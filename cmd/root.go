package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"github.com/KosOrKosm/simple-shell-unix/core/config"
)

var cfgPath string

// loadConfig loads the configuration, falling back to the built-in
// defaults when no config file exists.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("No config found, using defaults. Run `osh init` to customize.")
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "osh",
	Short: "A small line-oriented command interpreter",
	Long: `osh interprets one line of text at a time, turning it into operating
system processes with input/output redirection (< >), a two-program
pipeline (|) and backgrounding (&).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
