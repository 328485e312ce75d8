package cli

import (
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/remotesign/internal/signer/app"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP signing gateway",
		Long: `Run the HTTP signing gateway.

Required environment:
  DIGIDENTITY_CLIENT_ID, DIGIDENTITY_CLIENT_SECRET, DIGIDENTITY_API_KEY,
  SESSION_SECRET (at least 16 bytes, see "remotesign secret"),
  DIGIDENTITY_SIGNER_ID when the sign endpoint contains {signer_id}.

Optional environment:
  CERTIFICATE_CHAIN_PATH   PEM chain, read on every sign request
  SIGNER_ENVIRONMENT       endpoint profile name (default preprod)
  CONFIG_DIR               profile directory (default config)
  TOKEN_ENDPOINT, SIGN_ENDPOINT, TOKEN_SCOPES   override the profile
  UPSTREAM_TIMEOUT         upstream HTTP timeout (default 30s)
  SESSION_COOKIE_SECURE    Secure cookie flag (default true)
  ENV, LOG_LEVEL, LOG_FORMAT, PORT, SHUTDOWN_GRACE_PERIOD, RATELIMIT_*`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}

			return application.Run(cmd.Context())
		},
	}
}
