/*
Package signsdk is a client for a remote signing provider: an OAuth2
identity provider that hands out client-credentials tokens, and a signing API
that signs SHA-256 digests with a key the provider holds.

# Usage

	client := signsdk.NewClient(signsdk.Config{
		TokenURL:     "https://idp.example.com/oauth2/token",
		SignURL:      "https://api.example.com/v1/signers/{signer_id}/sign",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		APIKey:       apiKey,
		SignerID:     signerID,
	})

	token, err := client.ClientCredentialsGrant(ctx)
	if err != nil {
		return err
	}

	signature, err := client.SignHash(ctx, token.AccessToken, hashHex)

SignURL may contain the literal placeholder {signer_id}; it is replaced by
the path-escaped SignerID.

# Errors

ClientCredentialsGrant failures match ErrAuthenticationFailed. SignHash
returns errors matching ErrSigningFailed when the API answers non-2xx and
ErrMalformedResponse when a 2xx answer lacks a decodable signature. In both
failure cases with an HTTP answer, errors.As yields an *APIError holding the
status code and the verbatim response body:

	var apiErr *signsdk.APIError
	if errors.As(err, &apiErr) {
		log.Printf("signer said %d: %s", apiErr.StatusCode, apiErr.Body)
	}

# Logging

Requests go through slogx.Transport, so every upstream exchange is logged on
the logger found in the request context, with credential headers redacted.
*/
package signsdk
