package main

import (
	"github.com/spf13/cobra"

	"github.com/aloks98/devconnector/internal/crypto"
)

// secretBytes is the entropy of a generated signing secret.
const secretBytes = 32

// NewRootCmd creates the root command for the devconnector CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devconnector",
		Short: "devconnector - developer profiles API",
		Long: `devconnector serves a REST API for developer accounts and profiles
backed by an in-memory, Redis or PostgreSQL document store.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewGenSecretCmd())

	return cmd
}

// NewGenSecretCmd creates the gen-secret subcommand.
func NewGenSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random token signing secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := crypto.GenerateRandomHex(secretBytes)
			if err != nil {
				return err
			}
			cmd.Println(secret)
			return nil
		},
	}
}
