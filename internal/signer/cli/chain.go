package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/remotesign/pkg/certchain"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

func newChainCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "chain [path]",
		Short: "Show the certificate chain that would be put in x5c",
		Long: `Show the certificate chain that would be put in x5c.

The path defaults to $CERTIFICATE_CHAIN_PATH. Certificates that cannot be
read are dropped exactly as they would be when signing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := os.Getenv("CERTIFICATE_CHAIN_PATH")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no path given and CERTIFICATE_CHAIN_PATH is not set")
			}

			logger := slogx.New(slogx.Config{
				Service: "remotesign",
				Level:   "warn",
				Format:  "text",
				Output:  cmd.ErrOrStderr(),
			})
			ctx := slogx.WithContext(cmd.Context(), logger)

			chain := certchain.Load(ctx, path)
			if len(chain) == 0 {
				return fmt.Errorf("no certificates loaded from %s", path)
			}

			summaries, err := certchain.Inspect(chain)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSUBJECT\tISSUER\tNOT AFTER\tCA")
			for i, s := range summaries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", i, s.Subject, s.Issuer, s.NotAfter.UTC().Format(time.RFC3339), s.IsCA)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
