package articles

// Source describes one configured RSS/Atom input feed
type Source struct {
	Name     string // Derived from filename (without .yml extension)
	URL      string
	Category string
	Settings SourceSettings
}

type SourceSettings struct {
	Enabled         bool
	RefreshInterval int // seconds
	MaxItems        int
	Timeout         int // seconds
	ExtractContent  bool
}

type rawSource struct {
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Settings struct {
		Enabled         *bool `yaml:"enabled"`
		RefreshInterval int   `yaml:"refresh_interval"`
		MaxItems        int   `yaml:"max_items"`
		Timeout         int   `yaml:"timeout"`
		ExtractContent  bool  `yaml:"extract_content"`
	} `yaml:"settings"`
}

const (
	defaultRefreshInterval = 3600
	defaultMaxItems        = 20
	defaultTimeout         = 30
)

func (r rawSource) resolve(name string) *Source {
	source := &Source{
		Name:     name,
		URL:      r.URL,
		Category: r.Category,
		Settings: SourceSettings{
			Enabled:         true,
			RefreshInterval: r.Settings.RefreshInterval,
			MaxItems:        r.Settings.MaxItems,
			Timeout:         r.Settings.Timeout,
			ExtractContent:  r.Settings.ExtractContent,
		},
	}

	if r.Settings.Enabled != nil {
		source.Settings.Enabled = *r.Settings.Enabled
	}
	if source.Settings.RefreshInterval <= 0 {
		source.Settings.RefreshInterval = defaultRefreshInterval
	}
	if source.Settings.MaxItems <= 0 {
		source.Settings.MaxItems = defaultMaxItems
	}
	if source.Settings.Timeout <= 0 {
		source.Settings.Timeout = defaultTimeout
	}

	return source
}
