package migrator

// Catalog is the ordered set of all known migration versions, read from a
// Source and cached until explicitly invalidated.
type Catalog struct {
	source Source
	cached []string
}

// NewCatalog creates a catalog over the given source.
func NewCatalog(source Source) *Catalog {
	return &Catalog{source: source}
}

// Load returns all versions sorted ascending by ordering key. The listing is
// cached; subsequent calls return the cached result until Invalidate is
// called.
func (c *Catalog) Load() ([]string, error) {
	if c.cached != nil {
		return c.cached, nil
	}

	versions, err := c.source.List()
	if err != nil {
		return nil, err
	}
	if versions == nil {
		// An empty catalog is still a cacheable result.
		versions = []string{}
	}
	sortVersions(versions)
	c.cached = versions

	return versions, nil
}

// Invalidate drops the cached listing.
func (c *Catalog) Invalidate() {
	c.cached = nil
}
