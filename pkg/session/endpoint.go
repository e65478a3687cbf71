package session

import (
	"net/url"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
)

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.WrapCode(err, ErrInvalidEndpoint)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errors.NewCode(ErrInvalidEndpoint)
	}
	if u.Host == "" {
		return errors.NewCode(ErrInvalidEndpoint)
	}

	return nil
}
