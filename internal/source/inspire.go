// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// inspireAPIBase is the INSPIRE-HEP literature endpoint. Declared as a
// var so tests can substitute an httptest server.
var inspireAPIBase = "https://inspirehep.net/api/literature"

// InspireAdapter fetches an author's literature from the INSPIRE-HEP
// REST API, following pagination links up to Config.MaxPages.
type InspireAdapter struct {
	Client   *http.Client
	AuthorID string
	Label    string
	Config   types.FetchConfig
}

// Name returns the source label.
func (a *InspireAdapter) Name() string { return a.Label }

// Records queries the literature endpoint by author id and maps each
// hit to a candidate record.
func (a *InspireAdapter) Records(ctx context.Context) ([]types.Record, error) {
	pageSize := a.Config.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := a.Config.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	params := url.Values{
		"q":    {"authors.id:" + a.AuthorID},
		"size": {strconv.Itoa(pageSize)},
		"sort": {"mostrecent"},
	}
	next := inspireAPIBase + "?" + params.Encode()

	var out []types.Record
	for page := 0; next != "" && page < maxPages; page++ {
		payload, err := a.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		for _, hit := range payload.Hits.Hits {
			if r, ok := hit.record(); ok {
				out = append(out, r)
			}
		}
		next = payload.Links.Next
	}
	return out, nil
}

func (a *InspireAdapter) fetchPage(ctx context.Context, pageURL string) (*inspireResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if a.Config.InspireToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.Config.InspireToken)
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("INSPIRE API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("INSPIRE API returned HTTP %d", resp.StatusCode)
	}

	var payload inspireResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing INSPIRE response: %w", err)
	}
	return &payload, nil
}

// INSPIRE API JSON structures.
type inspireResponse struct {
	Hits struct {
		Hits []inspireHit `json:"hits"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type inspireHit struct {
	Metadata inspireMetadata `json:"metadata"`
	Links    struct {
		Self string `json:"self"`
	} `json:"links"`
}

type inspireMetadata struct {
	Titles []struct {
		Title string `json:"title"`
	} `json:"titles"`
	Authors []struct {
		FullName string `json:"full_name"`
	} `json:"authors"`
	EarliestDate    string `json:"earliest_date"`
	PreprintDate    string `json:"preprint_date"`
	PublicationInfo []struct {
		JournalTitle  string   `json:"journal_title"`
		JournalVolume string   `json:"journal_volume"`
		PageStart     string   `json:"page_start"`
		ArtID         string   `json:"artid"`
		Year          flexYear `json:"year"`
	} `json:"publication_info"`
	ArxivEprints []struct {
		Value string `json:"value"`
	} `json:"arxiv_eprints"`
	DOIs []struct {
		Value string `json:"value"`
	} `json:"dois"`
}

// maxInspireAuthors caps the author list; INSPIRE collaborations can
// run to thousands of names.
const maxInspireAuthors = 20

// record maps one literature hit to a candidate record. Hits without a
// title are unusable and reported as such.
func (h inspireHit) record() (types.Record, bool) {
	md := h.Metadata

	title := ""
	if len(md.Titles) > 0 {
		title = md.Titles[0].Title
	}
	if title == "" {
		return types.Record{}, false
	}

	var names []string
	for _, author := range md.Authors {
		if author.FullName != "" {
			names = append(names, author.FullName)
		}
		if len(names) == maxInspireAuthors {
			break
		}
	}

	r := types.Record{
		Title:   title,
		Authors: strings.Join(names, "; "),
		Year:    h.year(),
		Venue:   h.venue(),
	}

	if len(md.DOIs) > 0 && md.DOIs[0].Value != "" {
		r.SetLink("DOI", "https://doi.org/"+md.DOIs[0].Value)
	}
	if len(md.ArxivEprints) > 0 && md.ArxivEprints[0].Value != "" {
		r.SetLink("arXiv", "https://arxiv.org/abs/"+md.ArxivEprints[0].Value)
	}
	if h.Links.Self != "" {
		r.SetLink("INSPIRE", strings.Replace(h.Links.Self, "/api/", "/", 1))
	}

	if r.Venue == "" && len(md.ArxivEprints) > 0 && md.ArxivEprints[0].Value != "" {
		r.Venue = "arXiv:" + md.ArxivEprints[0].Value
	}

	return r, true
}

// year prefers the publication_info year, then falls back to the first
// four digits of the preprint or earliest date.
func (h inspireHit) year() int {
	md := h.Metadata
	if len(md.PublicationInfo) > 0 && md.PublicationInfo[0].Year > 0 {
		return int(md.PublicationInfo[0].Year)
	}
	for _, date := range []string{md.PreprintDate, md.EarliestDate} {
		if len(date) >= 4 {
			if y, err := strconv.Atoi(date[:4]); err == nil {
				return y
			}
		}
	}
	return 0
}

// venue builds "Journal Volume, Page (Year)" from publication_info,
// omitting missing parts.
func (h inspireHit) venue() string {
	md := h.Metadata
	if len(md.PublicationInfo) == 0 {
		return ""
	}
	pi := md.PublicationInfo[0]
	if pi.JournalTitle == "" {
		return ""
	}

	venue := pi.JournalTitle
	if pi.JournalVolume != "" {
		venue += " " + pi.JournalVolume
	}
	page := pi.PageStart
	if page == "" {
		page = pi.ArtID
	}
	if page != "" {
		venue += ", " + page
	}
	if y := h.year(); y > 0 {
		venue += fmt.Sprintf(" (%d)", y)
	}
	return venue
}

// flexYear unmarshals a year that upstream encodes either as a JSON
// number or as a digit string.
type flexYear int

func (y *flexYear) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*y = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate junk years rather than failing the whole record.
		*y = 0
		return nil
	}
	*y = flexYear(n)
	return nil
}
