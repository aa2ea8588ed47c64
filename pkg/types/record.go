// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubsync pipeline.
package types

// Record represents one publication as reported by a single source
// (a candidate record) or as reconciled across sources (a canonical
// record). The two stages share a shape: reconciliation only fills
// fields in and unions links, it never invents new ones.
//
// All fields except Title may be empty. Empty fields are omitted from
// serialized output rather than emitted as null or empty placeholders.
type Record struct {
	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Title is the publication title as reported by the source.
	// A record with an empty title is unusable and is discarded
	// before reconciliation.
	Title string `json:"title" yaml:"title"`

	// Authors is a free-form author list. Sources vary in delimiter
	// and in whether all authors are included.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Venue is a free-form journal or venue description.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Links maps a link-kind label ("arXiv", "DOI", a source name) to
	// a URL or identifier. Kinds are unioned during reconciliation;
	// the first-seen value per kind wins on conflict.
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`

	// Origin names the source that produced this record. Kept in
	// output for debugging; consumers are free to ignore it.
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// LinkKinds returns the number of distinct link kinds with a non-empty
// value.
func (r Record) LinkKinds() int {
	n := 0
	for _, v := range r.Links {
		if v != "" {
			n++
		}
	}
	return n
}

// SetLink adds a link under kind unless that kind already exists.
// Empty values are ignored.
func (r *Record) SetLink(kind, value string) {
	if value == "" {
		return
	}
	if r.Links == nil {
		r.Links = make(map[string]string)
	}
	if _, ok := r.Links[kind]; !ok {
		r.Links[kind] = value
	}
}

// Clone returns a deep copy of the record. The links map is copied so
// that merging into the clone never mutates the original.
func (r Record) Clone() Record {
	out := r
	if r.Links != nil {
		out.Links = make(map[string]string, len(r.Links))
		for k, v := range r.Links {
			out.Links[k] = v
		}
	}
	return out
}
