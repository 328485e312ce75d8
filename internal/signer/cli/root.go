// Package cli implements the remotesign command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/remotesign/internal/signer/app"
)

// NewRootCommand assembles the remotesign command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "remotesign",
		Short: "Sign JWTs with a remote signing service",
		Long: `Sign JWTs with a remote signing service.

remotesign builds RS256 JWTs whose header carries the configured X.509
certificate chain (x5c), and has their SHA-256 digest signed by a remote
signing API authorised through an OAuth2 client-credentials token.

Configuration is read from the environment, see "remotesign serve --help".`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newSignCommand(),
		newChainCommand(),
		newSecretCommand(),
	)

	return root
}
