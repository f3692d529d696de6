package almanac

import (
	"context"

	"github.com/litescript/ls-ephemeris/internal/ephem"
)

// Source supplies the dataset a query runs against. It is consulted only
// after the query's inputs are validated.
type Source interface {
	Dataset(ctx context.Context) (ephem.Dataset, error)
}

type staticSource struct {
	ds ephem.Dataset
}

// StaticSource always returns ds.
func StaticSource(ds ephem.Dataset) Source {
	return staticSource{ds: ds}
}

func (s staticSource) Dataset(context.Context) (ephem.Dataset, error) {
	return s.ds, nil
}

type providerSource struct {
	p    *ephem.Provider
	name string
}

// ProviderSource loads the named dataset from p on first use.
func ProviderSource(p *ephem.Provider, name string) Source {
	return providerSource{p: p, name: name}
}

func (s providerSource) Dataset(ctx context.Context) (ephem.Dataset, error) {
	return s.p.Load(ctx, s.name)
}
