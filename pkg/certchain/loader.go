// Package certchain loads PEM certificate chains into the form used by the
// JWT "x5c" header: standard base64 DER, leaf first.
package certchain

import (
	"context"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"
	"strings"

	"github.com/aussiebroadwan/remotesign/pkg/slogx"
)

const (
	BeginMarker = "-----BEGIN CERTIFICATE-----"
	EndMarker   = "-----END CERTIFICATE-----"
)

var errNoCertificateBlock = errors.New("certchain: no CERTIFICATE block in fragment")

// Load reads the PEM file at path and returns its certificates in file order.
//
// Load never fails: a fragment that does not decode is logged and skipped,
// and an unreadable file yields an empty chain. Callers must treat an empty
// result as fatal.
func Load(ctx context.Context, path string) []string {
	log := slogx.FromContext(ctx).With("cert_path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("certificate chain unreadable", "error", err)
		return nil
	}

	chain := Parse(ctx, data)
	if len(chain) == 0 {
		log.Error("certificate chain contains no valid certificates")
		return nil
	}

	log.Debug("certificate chain loaded", "certificates", len(chain))
	return chain
}

// Parse splits PEM text on the end marker and normalises each fragment.
func Parse(ctx context.Context, data []byte) []string {
	log := slogx.FromContext(ctx)

	var chain []string
	for i, fragment := range strings.Split(string(data), EndMarker) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}

		entry, err := normalize(fragment)
		if err != nil {
			log.Warn("dropping invalid certificate fragment", "index", i, "error", err)
			continue
		}
		chain = append(chain, entry)
	}

	return chain
}

// normalize reattaches the end marker and re-encodes the DER body without
// armor or line breaks. pem.Decode rejects anything that is not base64.
func normalize(fragment string) (string, error) {
	rest := []byte(fragment + EndMarker)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return "", errNoCertificateBlock
		}
		if block.Type == "CERTIFICATE" && len(block.Bytes) > 0 {
			return base64.StdEncoding.EncodeToString(block.Bytes), nil
		}
	}
}
