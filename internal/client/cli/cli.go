// Package cli implements galleryctl, the command-line admin tool for a
// running gallery server.
package cli

import (
	"fmt"

	"github.com/dmitrijs2005/gallery/internal/client/client"
	"github.com/dmitrijs2005/gallery/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the galleryctl command with all subcommands wired in.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "galleryctl",
		Short:         "Manage gallery entries and publish the manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("addr", "", "server URL (or GALLERY_URL env)")
	cmd.PersistentFlags().String("token", "", "bearer token (or GALLERY_TOKEN env)")
	cmd.PersistentFlags().StringP("config", "c", "", "JSON config file")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")

	cmd.AddCommand(
		newListCmd(),
		newGetCmd(),
		newUploadCmd(),
		newRenameCmd(),
		newSetOrderCmd(),
		newMoveCmd(),
		newDeleteCmd(),
		newPublishCmd(),
		newTokenCmd(),
		newSecretCmd(),
	)

	return cmd
}

// configFromCmd loads the client config and applies the persistent flags.
func configFromCmd(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ServerURL = addr
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

func clientFromCmd(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := configFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server URL is not set")
	}
	return client.New(cfg.ServerURL, cfg.Token, cfg.Timeout), nil
}

// outputFormat returns "json" or "table" from the --output flag.
func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("output")
	return f
}
