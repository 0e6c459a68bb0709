package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jslinters/jlin/lint"
)

// watchCmd: jlin watch
var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Watch directories and lint files on change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide directory paths")
			os.Exit(1)
		}

		engine, err := lint.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if err := engine.StartWatching(args); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		defer func() {
			if err := engine.StopWatching(); err != nil {
				logger.Error("Failed to stop watching", zap.Error(err))
			}
		}()

		fmt.Println("Watching for changes. Press Ctrl+C to stop.")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	},
}
