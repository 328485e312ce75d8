package app

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/viper"
)

// ErrProfileNotFound is returned when no <name>.yaml exists in the config dir.
var ErrProfileNotFound = errors.New("endpoint profile not found")

var profileName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Profile holds the upstream endpoints of one signer environment.
type Profile struct {
	TokenEndpoint string   `mapstructure:"token_endpoint"`
	SignEndpoint  string   `mapstructure:"sign_endpoint"`
	Scopes        []string `mapstructure:"scopes"`
}

// LoadProfile reads <dir>/<name>.yaml.
func LoadProfile(dir, name string) (Profile, error) {
	if !profileName.MatchString(name) {
		return Profile{}, fmt.Errorf("invalid signer environment %q", name)
	}

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return Profile{}, fmt.Errorf("%w: %s in %s", ErrProfileNotFound, name, dir)
		}
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", name, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile %s: %w", name, err)
	}

	return p, nil
}
