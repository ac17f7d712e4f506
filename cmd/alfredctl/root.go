package main

import (
	"alfred/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "alfredctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "alfredctl operates the Alfred team-automation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func newLogger() (*zap.Logger, error) {
	level := "info"
	if viper.GetBool("debug") {
		level = "debug"
	}
	return logger.New(level, viper.GetBool("json"))
}
