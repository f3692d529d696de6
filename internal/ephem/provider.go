// Package ephem provides solar-system position datasets and the apparent
// place pipeline that turns them into observer-relative coordinates.
package ephem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cloudeng.io/errors"

	"github.com/litescript/ls-ephemeris/internal/astro"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/metrics"
)

// Dataset is a read-only source of geometric positions. Implementations
// are safe for concurrent use.
type Dataset interface {
	// Name returns the dataset name for display/logging.
	Name() string

	// Position returns the geometric position of b at TDB Julian date jd,
	// in AU, referred to the ICRF (J2000 mean equator and equinox). The
	// origin is fixed per dataset and shared with EarthPosition.
	Position(b Body, jd float64) (astro.Vec3, error)

	// EarthPosition returns the geocenter in the same frame and origin.
	EarthPosition(jd float64) (astro.Vec3, error)

	// Coverage returns the Julian date range the dataset can serve.
	Coverage() (startJD, endJD float64)

	// Close releases any resources held by the dataset.
	Close() error
}

var (
	// ErrDatasetUnavailable is returned when a dataset can be neither
	// opened from disk nor fetched.
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrOutOfRange is returned for dates outside a dataset's coverage.
	ErrOutOfRange = errors.New("date outside dataset coverage")
)

const (
	// AnalyticDatasetName selects the builtin analytic model.
	AnalyticDatasetName = "analytic"

	// DefaultJPLDataset is the default JPL development ephemeris.
	DefaultJPLDataset = "de440"

	// DefaultDir is where dataset files are stored.
	DefaultDir = "files"
)

// jplFiles maps DE names to paths relative to DefaultBaseURL.
var jplFiles = map[string]string{
	"de440": "de440/linux_p1550p2650.440",
	"de430": "de430/linux_p1550p2650.430",
}

// DatasetNames lists every name Load accepts.
func DatasetNames() []string {
	names := []string{AnalyticDatasetName}
	for name := range jplFiles {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// Provider resolves dataset names to resident datasets, reading them from
// disk or fetching them on first use.
type Provider struct {
	dir     string
	fetcher *Fetcher
	cache   *Cache
	logger  *logging.Logger
	open    func(name, path string) (Dataset, error)
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithDir sets the directory dataset files are read from and written to.
func WithDir(dir string) ProviderOption {
	return func(p *Provider) {
		p.dir = dir
	}
}

// WithFetcher sets the fetcher used for missing files. nil disables
// fetching.
func WithFetcher(f *Fetcher) ProviderOption {
	return func(p *Provider) {
		p.fetcher = f
	}
}

// WithCache shares a dataset cache between providers.
func WithCache(c *Cache) ProviderOption {
	return func(p *Provider) {
		p.cache = c
	}
}

// WithLogger sets the logger for load and fetch events.
func WithLogger(l *logging.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = l
	}
}

// NewProvider creates a provider. By default files live in DefaultDir and
// missing JPL files are fetched from DefaultBaseURL.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		dir:     DefaultDir,
		fetcher: NewFetcher(),
		logger:  logging.Discard(),
		open:    openJPLDataset,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewCache()
	}
	return p
}

// Cache returns the provider's dataset cache.
func (p *Provider) Cache() *Cache {
	return p.cache
}

// Load returns the named dataset, making it resident on first use.
// Concurrent first loads of the same name may each do I/O; only one
// result is kept.
func (p *Provider) Load(ctx context.Context, name string) (Dataset, error) {
	start := time.Now()
	log := logging.FromContext(ctx).With("dataset", name)

	if ds, ok := p.cache.Get(name); ok {
		metrics.ObserveDatasetLoad(name, metrics.SourceCache, 0)
		log.Debug("dataset cache hit")
		return ds, nil
	}

	if name == AnalyticDatasetName {
		ds := p.cache.Put(name, metrics.SourceBuiltin, NewAnalyticDataset())
		metrics.ObserveDatasetLoad(name, metrics.SourceBuiltin, time.Since(start))
		return ds, nil
	}

	rel, ok := jplFiles[name]
	if !ok {
		metrics.ObserveDatasetLoad(name, metrics.SourceError, time.Since(start))
		return nil, fmt.Errorf("%w: unknown dataset %q", ErrDatasetUnavailable, name)
	}

	ds, source, err := p.loadFile(ctx, name, rel)
	if err != nil {
		metrics.ObserveDatasetLoad(name, metrics.SourceError, time.Since(start))
		p.logger.Warn("dataset %s unavailable: %v", name, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetUnavailable, name, err)
	}

	ds = p.cache.Put(name, source, ds)
	metrics.ObserveDatasetLoad(name, source, time.Since(start))
	log.Info("dataset loaded", "source", source, "duration", time.Since(start))
	return ds, nil
}

// loadFile opens the dataset file, fetching it first when it is absent.
// Every failed attempt is kept in the returned error.
func (p *Provider) loadFile(ctx context.Context, name, rel string) (Dataset, string, error) {
	path := filepath.Join(p.dir, filepath.Base(rel))
	errs := &errors.M{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		ds, err := p.open(name, path)
		if err == nil {
			return ds, metrics.SourceDisk, nil
		}
		errs.Append(fmt.Errorf("open %s: %w", path, err))
		return nil, "", errs.Err()
	case !errors.Is(err, fs.ErrNotExist):
		errs.Append(fmt.Errorf("stat %s: %w", path, err))
		return nil, "", errs.Err()
	}

	errs.Append(fmt.Errorf("%s: %w", path, fs.ErrNotExist))
	if p.fetcher == nil {
		errs.Append(errors.New("fetching disabled"))
		return nil, "", errs.Err()
	}

	p.logger.Info("fetching dataset %s from %s", name, p.fetcher.BaseURL())
	res, err := p.fetcher.Fetch(ctx, rel, path)
	if err != nil {
		errs.Append(fmt.Errorf("fetch %s: %w", res.URL, err))
		return nil, "", errs.Err()
	}
	p.logger.Info("fetched %s (%d bytes in %v)", res.Path, res.Bytes, res.Duration.Round(time.Millisecond))

	ds, err := p.open(name, path)
	if err != nil {
		errs.Append(fmt.Errorf("open %s: %w", path, err))
		return nil, "", errs.Err()
	}
	return ds, metrics.SourceFetch, nil
}
