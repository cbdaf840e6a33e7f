package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basfmt/internal/config"
	"basfmt/internal/indent"
	"basfmt/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the basfmt language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	manifest, _, err := config.Load(".")
	if err != nil {
		return err
	}
	cfg := manifest.Config

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Defaults: indent.Options{
			TabSize:      cfg.Format.TabSize,
			InsertSpaces: cfg.Format.InsertSpaces,
		},
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
