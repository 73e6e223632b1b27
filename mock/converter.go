package mock

import "github.com/fwojciec/mdmirror"

var _ mdmirror.Converter = (*Converter)(nil)

// Converter is a mock implementation of mdmirror.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
