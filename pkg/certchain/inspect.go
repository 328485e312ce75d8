package certchain

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"
)

// Summary describes one chain entry for humans.
type Summary struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	IsCA      bool      `json:"is_ca"`
}

// Inspect parses x5c entries as X.509 certificates.
func Inspect(chain []string) ([]Summary, error) {
	out := make([]Summary, 0, len(chain))
	for i, entry := range chain {
		der, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, fmt.Errorf("certchain: entry %d: %w", i, err)
		}

		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("certchain: entry %d: %w", i, err)
		}

		out = append(out, Summary{
			Subject:   cert.Subject.String(),
			Issuer:    cert.Issuer.String(),
			NotBefore: cert.NotBefore,
			NotAfter:  cert.NotAfter,
			IsCA:      cert.IsCA,
		})
	}
	return out, nil
}
