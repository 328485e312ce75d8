package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/remotesign/internal/signer/app"
	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

type signOptions struct {
	headerFile  string
	payloadFile string
	chainPath   string
	verbose     bool
}

func newSignCommand() *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Authenticate and sign one JWT, printing it to stdout",
		Long: `Authenticate and sign one JWT, printing it to stdout.

Reads the header and payload JSON objects from files ("-" for stdin) and uses
the same environment as "serve", minus the session and server settings.`,
		Example: `  remotesign sign --header header.json --payload claims.json
  echo '{"sub":"me"}' | remotesign sign --payload -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSign(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.headerFile, "header", "", `file holding the JWT header object ("-" for stdin, default {})`)
	cmd.Flags().StringVar(&opts.payloadFile, "payload", "", `file holding the JWT payload object ("-" for stdin)`)
	cmd.Flags().StringVar(&opts.chainPath, "chain", "", "PEM certificate chain (default $CERTIFICATE_CHAIN_PATH)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream traffic to stderr")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func runSign(cmd *cobra.Command, opts *signOptions) error {
	if opts.headerFile == "-" && opts.payloadFile == "-" {
		return fmt.Errorf("only one of --header and --payload can read stdin")
	}

	header := "{}"
	if opts.headerFile != "" {
		raw, err := readInput(cmd.InOrStdin(), opts.headerFile)
		if err != nil {
			return fmt.Errorf("header: %w", err)
		}
		header = raw
	}

	payload, err := readInput(cmd.InOrStdin(), opts.payloadFile)
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if opts.chainPath != "" {
		cfg.CertificateChainPath = opts.chainPath
	}
	if err := cfg.ValidateClient(); err != nil {
		return err
	}

	level := "error"
	if opts.verbose {
		level = "info"
	}
	logger := slogx.New(slogx.Config{
		Service: "remotesign",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   level,
		Format:  "text",
		Output:  cmd.ErrOrStderr(),
	})
	ctx := slogx.WithContext(cmd.Context(), logger)

	svc := app.NewService(cfg, nil)

	tok, err := svc.Authenticate(ctx)
	if err != nil {
		return err
	}

	signed, err := svc.Sign(ctx, tok.AccessToken, header, payload)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
	return err
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		raw, err := io.ReadAll(stdin)
		return string(raw), err
	}

	raw, err := os.ReadFile(name)
	return string(raw), err
}
