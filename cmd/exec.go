package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KosOrKosm/simple-shell-unix/core"
	"github.com/KosOrKosm/simple-shell-unix/core/shell"
)

var planOnly bool

// execCmd interprets a single line without starting the read loop.
var execCmd = &cobra.Command{
	Use:   "exec \"LINE\"",
	Short: "Interpret one command line and exit.",
	Long: `Interprets a single line exactly as the interactive loop would,
without prompting. With --plan the derived execution plan is printed
instead of being run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if planOnly {
			tokens, err := shell.Split(args[0], cfg.MaxTokens)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "osh: %v\n", err)
			}
			plan, err := shell.BuildPlan(tokens)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.Describe())
			return nil
		}

		events, closeLog, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		sh := core.NewBatchShell(cfg, events, cmd.ErrOrStderr())
		sh.Interpret(args[0])
		return nil
	},
}

func init() {
	execCmd.Flags().BoolVar(&planOnly, "plan", false, "print the execution plan instead of running it")
	rootCmd.AddCommand(execCmd)
}
