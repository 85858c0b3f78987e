package geminicli

import "github.com/marcus/switchyard/internal/locator"

func init() {
	locator.RegisterFactory(func() locator.Locator {
		return New()
	})
}
