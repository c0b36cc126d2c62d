package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/emilythestrangee/devflow/backend/cmd"
	"github.com/emilythestrangee/devflow/backend/internal/config"
)

func main() {
	v := config.NewViper()
	rootCmd := cmd.NewRootCommand(v)

	rootCmd.AddCommand(cmd.NewServeCommand(v))
	rootCmd.AddCommand(cmd.NewMigrateCommand(v))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
