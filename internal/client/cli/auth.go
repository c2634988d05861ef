package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gallery/internal/cryptox"
	"github.com/dmitrijs2005/gallery/internal/server/auth"
	"github.com/spf13/cobra"
)

const envTokenSecret = "TOKEN_SECRET"

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the admin API",
		Long:  "Signs a token with the server's HMAC secret, taken from --secret or the TOKEN_SECRET env.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				secret = os.Getenv(envTokenSecret)
			}
			if secret == "" {
				return fmt.Errorf("no secret: pass --secret or set %s", envTokenSecret)
			}
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			tok, err := auth.GenerateToken(subject, []byte(secret), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().String("secret", "", "HMAC secret the server verifies tokens with")
	cmd.Flags().String("subject", "admin", "token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random HMAC secret for TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, _ := cmd.Flags().GetInt("bytes")
			s, err := cryptox.MakeRandHexString(size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
	cmd.Flags().Int("bytes", cryptox.MinSecretSize, "number of random bytes")
	return cmd
}
