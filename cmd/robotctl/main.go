// robotctl sends robot notifications from scripts and cron jobs.
//
// Configuration comes from the environment (ROBOT_*, REDIS_*, APP_*).
//
// Usage:
//
//	robotctl text "backup finished"
//	robotctl markdown --at-all "# deploy failed"
//	robotctl notice --data host=db1 "replication lag"
//	robotctl token --subject billing-cron --ttl 720h
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	channel   string
	atMobiles []string
	atUsers   []string
	atAll     bool
	waitFor   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "robotctl",
		Short: "Send robot notifications",
		Long: `robotctl sends one message to a robot channel and waits for the
delivery to finish. Identical content inside the channel cooldown is dropped.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&channel, "channel", "c", "", "Channel name (default ROBOT_CHANNEL)")
	rootCmd.PersistentFlags().StringSliceVar(&atMobiles, "at-mobile", nil, "Mention these mobile numbers")
	rootCmd.PersistentFlags().StringSliceVar(&atUsers, "at-user", nil, "Mention these user ids")
	rootCmd.PersistentFlags().BoolVar(&atAll, "at-all", false, "Mention everyone")
	rootCmd.PersistentFlags().DurationVarP(&waitFor, "wait", "w", 30*time.Second, "How long to wait for delivery")

	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(markdownCmd())
	rootCmd.AddCommand(noticeCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
