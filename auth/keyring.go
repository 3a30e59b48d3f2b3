// Package auth stores the resolver API token in the system keyring.
package auth

import (
	"errors"

	"github.com/cinelane/cinelane/constant"
	"github.com/samber/mo"
	"github.com/zalando/go-keyring"
)

const user = "resolver-token"

// SetToken persists the resolver API token.
func SetToken(token string) error {
	return keyring.Set(constant.App, user, token)
}

// GetToken returns the stored token, or None if there is none.
func GetToken() (mo.Option[string], error) {
	token, err := keyring.Get(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(token), nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
