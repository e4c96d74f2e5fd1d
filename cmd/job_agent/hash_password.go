package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajsalpv/job-agent/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Hash an API password for the API_PASSWORD_HASH setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(_ *cobra.Command, args []string) error {
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	hash, err := passwords.HashPassword(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
