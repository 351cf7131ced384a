package cmd

import (
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KosOrKosm/simple-shell-unix/core"
	"github.com/KosOrKosm/simple-shell-unix/core/config"
	"github.com/KosOrKosm/simple-shell-unix/core/logger"
)

var noColor bool

// runCmd starts the interactive interpreter loop.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive interpreter.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if noColor {
			cfg.Color = config.ColorNever
			color.NoColor = true
		}

		events, closeLog, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		sh, err := core.NewShell(cfg, events)
		if err != nil {
			return err
		}

		return sh.Run()
	},
}

// openEventLog wires up the command event log when the configuration
// names one. The returned close func is always safe to call.
func openEventLog(cfg *config.Configuration) (*logger.SessionLogger, func(), error) {
	fd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, func() {}, err
	}
	if fd == nil {
		return nil, func() {}, nil
	}

	log.Printf("Logging commands to %s", fd.Name())
	return logger.NewJsonLinesLogRecorder(fd).NewSession(""), func() { fd.Close() }, nil
}

func init() {
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored warnings and errors")
	rootCmd.AddCommand(runCmd)
}
