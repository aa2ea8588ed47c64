package types

import "time"

// HTTPConfig holds shared HTTP settings used by source adapters that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubsync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of records requested per API page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxPages bounds pagination for sources that page (default 10).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// InspireToken is an optional INSPIRE-HEP API token sent as a
	// bearer credential for higher rate limits.
	InspireToken string `json:"inspire_token,omitempty" yaml:"inspire_token,omitempty"`
}

// SourceKind identifies a source adapter implementation.
type SourceKind string

const (
	KindInspire  SourceKind = "inspire"
	KindOpenAlex SourceKind = "openalex"
	KindFile     SourceKind = "file"
)

// SourceSpec configures one source adapter. Specs are listed in priority
// order: the first source is authoritative and wins merge ties against
// later ones.
type SourceSpec struct {
	// Name labels the source in progress output and the run ledger.
	// Defaults to the kind when empty.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Kind selects the adapter: inspire, openalex, or file.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// AuthorID is the upstream author identifier (INSPIRE numeric id,
	// OpenAlex author id). Used by API-backed kinds.
	AuthorID string `json:"author_id,omitempty" yaml:"author_id,omitempty"`

	// Path is the candidate list file for the file kind (YAML or JSON).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// SourcesFile is the on-disk sources configuration (sources.yaml).
type SourcesFile struct {
	Sources []SourceSpec `json:"sources" yaml:"sources"`
}

// OutputFormat selects the serialization format for published output.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)
