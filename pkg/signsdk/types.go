package signsdk

import "time"

// ContentTypeJSONAPI is the media type the signing API speaks.
const ContentTypeJSONAPI = "application/vnd.api+json"

// Token is a client-credentials access token.
type Token struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time // zero when the provider sent no expires_in
	AcquiredAt  time.Time
}

// SignRequest is the JSON:API envelope posted to the signing endpoint.
type SignRequest struct {
	Data SignRequestData `json:"data"`
}

type SignRequestData struct {
	Type       string                `json:"type"`
	Attributes SignRequestAttributes `json:"attributes"`
}

type SignRequestAttributes struct {
	HashToSign string `json:"hash_to_sign"`
}

// NewSignRequest wraps a hex digest in the request envelope.
func NewSignRequest(hashHex string) SignRequest {
	return SignRequest{
		Data: SignRequestData{
			Type:       "sign",
			Attributes: SignRequestAttributes{HashToSign: hashHex},
		},
	}
}

// SignResponse mirrors the success body. Pointers let us tell a missing key
// apart from an empty value.
type SignResponse struct {
	Data *SignResponseData `json:"data"`
}

type SignResponseData struct {
	Type       string                  `json:"type,omitempty"`
	ID         string                  `json:"id,omitempty"`
	Attributes *SignResponseAttributes `json:"attributes"`
}

type SignResponseAttributes struct {
	Signature *string `json:"signature"`
}
