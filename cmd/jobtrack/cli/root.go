package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Jobtrack: job application tracking",
	Long: `Jobtrack keeps track of job applications, interviews and follow-up tasks.
Log applications, move them through the pipeline and read the dashboard
numbers without leaving the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(versionCmd)
}
