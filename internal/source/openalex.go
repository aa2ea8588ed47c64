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

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var
// so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// OpenAlexAdapter fetches an author's works from the OpenAlex API.
type OpenAlexAdapter struct {
	Client   *http.Client
	AuthorID string
	Label    string
	Config   types.FetchConfig
}

// Name returns the source label.
func (a *OpenAlexAdapter) Name() string { return a.Label }

// Records queries the Works endpoint filtered by author id, walking
// result pages up to Config.MaxPages.
func (a *OpenAlexAdapter) Records(ctx context.Context) ([]types.Record, error) {
	pageSize := a.Config.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	if pageSize > 200 {
		pageSize = 200
	}
	maxPages := a.Config.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	var out []types.Record
	for page := 1; page <= maxPages; page++ {
		params := url.Values{
			"filter":   {"author.id:" + a.AuthorID},
			"per-page": {strconv.Itoa(pageSize)},
			"page":     {strconv.Itoa(page)},
			"sort":     {"publication_date:desc"},
		}
		if a.Config.OpenAlexEmail != "" {
			params.Set("mailto", a.Config.OpenAlexEmail)
		}

		payload, err := a.fetchPage(ctx, openAlexWorksBase+"?"+params.Encode())
		if err != nil {
			return nil, err
		}

		for _, work := range payload.Results {
			if r, ok := work.record(); ok {
				out = append(out, r)
			}
		}

		if len(payload.Results) < pageSize {
			break
		}
	}
	return out, nil
}

func (a *OpenAlexAdapter) fetchPage(ctx context.Context, pageURL string) (*openAlexResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var payload openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return &payload, nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta struct {
		Count   int `json:"count"`
		PerPage int `json:"per_page"`
		Page    int `json:"page"`
	} `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DOI             string `json:"doi"`
	PublicationYear int    `json:"publication_year"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
	PrimaryLocation struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	IDs struct {
		OpenAlex string `json:"openalex"`
	} `json:"ids"`
}

// record maps one work to a candidate record. Works without a title
// are unusable.
func (w openAlexWork) record() (types.Record, bool) {
	if w.Title == "" {
		return types.Record{}, false
	}

	var names []string
	for _, authorship := range w.Authorships {
		if authorship.Author.DisplayName != "" {
			names = append(names, authorship.Author.DisplayName)
		}
	}

	r := types.Record{
		Title:   strings.TrimSpace(w.Title),
		Year:    w.PublicationYear,
		Authors: strings.Join(names, "; "),
		Venue:   w.PrimaryLocation.Source.DisplayName,
	}

	// OpenAlex reports the DOI as a full URL; keep it that way so the
	// link is directly usable.
	r.SetLink("DOI", w.DOI)
	if w.IDs.OpenAlex != "" {
		r.SetLink("OpenAlex", w.IDs.OpenAlex)
	} else {
		r.SetLink("OpenAlex", w.ID)
	}

	return r, true
}
