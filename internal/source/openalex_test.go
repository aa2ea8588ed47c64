package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

const sampleOpenAlexJSON = `{
  "meta": {"count": 2, "per_page": 100, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W1111111111",
      "title": "Generalized Symmetry Breaking",
      "doi": "https://doi.org/10.1103/PhysRevD.108.045012",
      "publication_year": 2023,
      "authorships": [
        {"author": {"display_name": "Jane Doe"}},
        {"author": {"display_name": "Richard Roe"}}
      ],
      "primary_location": {"source": {"display_name": "Physical Review D"}},
      "ids": {"openalex": "https://openalex.org/W1111111111"}
    },
    {
      "id": "https://openalex.org/W2222222222",
      "title": "An Untethered Result",
      "publication_year": 2021,
      "authorships": [],
      "primary_location": {"source": {}},
      "ids": {"openalex": "https://openalex.org/W2222222222"}
    }
  ]
}`

func openAlexTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestOpenAlexAdapterRecords(t *testing.T) {
	ts := openAlexTestServer(http.StatusOK, sampleOpenAlexJSON)
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	a := &OpenAlexAdapter{Client: ts.Client(), AuthorID: "A5023888391", Label: "openalex", Config: testFetchConfig()}
	records, err := a.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	r0 := records[0]
	if r0.Title != "Generalized Symmetry Breaking" {
		t.Errorf("Title = %q", r0.Title)
	}
	if r0.Year != 2023 {
		t.Errorf("Year = %d, want 2023", r0.Year)
	}
	if r0.Authors != "Jane Doe; Richard Roe" {
		t.Errorf("Authors = %q", r0.Authors)
	}
	if r0.Venue != "Physical Review D" {
		t.Errorf("Venue = %q", r0.Venue)
	}
	if r0.Links["DOI"] != "https://doi.org/10.1103/PhysRevD.108.045012" {
		t.Errorf("DOI link = %q", r0.Links["DOI"])
	}
	if r0.Links["OpenAlex"] != "https://openalex.org/W1111111111" {
		t.Errorf("OpenAlex link = %q", r0.Links["OpenAlex"])
	}

	r1 := records[1]
	if _, ok := r1.Links["DOI"]; ok {
		t.Error("work without DOI should not carry a DOI link")
	}
	if r1.Venue != "" {
		t.Errorf("Venue = %q, want empty", r1.Venue)
	}
}

func TestOpenAlexAdapterSendsMailto(t *testing.T) {
	var gotMailto string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"meta": {}, "results": [{"title": "T", "publication_year": 2020}]}`)
	}))
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	cfg := testFetchConfig()
	cfg.OpenAlexEmail = "user@example.com"
	a := &OpenAlexAdapter{Client: ts.Client(), AuthorID: "A1", Label: "openalex", Config: cfg}
	if _, err := a.Records(context.Background()); err != nil {
		t.Fatalf("Records: %v", err)
	}
	if gotMailto != "user@example.com" {
		t.Errorf("mailto = %q, want configured email", gotMailto)
	}
}

func TestOpenAlexAdapterPagination(t *testing.T) {
	pages := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Header().Set("Content-Type", "application/json")
		if pages == 1 {
			// A full page signals more may follow.
			fmt.Fprint(w, `{"meta": {}, "results": [`)
			for i := 0; i < 2; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"title": "Paper %d", "publication_year": 2020}`, i)
			}
			fmt.Fprint(w, `]}`)
			return
		}
		fmt.Fprint(w, `{"meta": {}, "results": [{"title": "Last", "publication_year": 2019}]}`)
	}))
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	cfg := testFetchConfig()
	cfg.PageSize = 2
	a := &OpenAlexAdapter{Client: ts.Client(), AuthorID: "A1", Label: "openalex", Config: cfg}
	records, err := a.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3 across two pages", len(records))
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2 (short page stops the walk)", pages)
	}
}

func TestOpenAlexAdapterHTTPError(t *testing.T) {
	ts := openAlexTestServer(http.StatusTooManyRequests, "slow down")
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	a := &OpenAlexAdapter{Client: ts.Client(), AuthorID: "A1", Label: "openalex", Config: testFetchConfig()}
	if _, err := a.Records(context.Background()); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

// --- Build / FetchAll ---

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build([]types.SourceSpec{{Kind: "scholar"}}, testFetchConfig(), http.DefaultClient)
	if err == nil {
		t.Error("expected error for unknown source kind")
	}
}

func TestBuildRequiresFields(t *testing.T) {
	tests := []struct {
		name string
		spec types.SourceSpec
	}{
		{"inspire without author_id", types.SourceSpec{Kind: types.KindInspire}},
		{"openalex without author_id", types.SourceSpec{Kind: types.KindOpenAlex}},
		{"file without path", types.SourceSpec{Kind: types.KindFile}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build([]types.SourceSpec{tt.spec}, testFetchConfig(), http.DefaultClient); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestBuildPreservesOrder(t *testing.T) {
	specs := []types.SourceSpec{
		{Kind: types.KindInspire, AuthorID: "1", Name: "primary"},
		{Kind: types.KindOpenAlex, AuthorID: "A1", Name: "secondary"},
		{Kind: types.KindFile, Path: "extra.yaml"},
	}
	adapters, err := Build(specs, testFetchConfig(), http.DefaultClient)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"primary", "secondary", "file"}
	for i, name := range want {
		if adapters[i].Name() != name {
			t.Errorf("adapters[%d].Name() = %q, want %q", i, adapters[i].Name(), name)
		}
	}
}

type stubAdapter struct {
	name    string
	records []types.Record
	err     error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Records(_ context.Context) ([]types.Record, error) {
	return s.records, s.err
}

func TestFetchAllKeepsPrioritySlots(t *testing.T) {
	adapters := []Adapter{
		&stubAdapter{name: "first", records: []types.Record{{Title: "A"}}},
		&stubAdapter{name: "second", err: fmt.Errorf("network down")},
		&stubAdapter{name: "third", records: []types.Record{{Title: "B"}, {Title: "C"}}},
	}

	var buf testWriter
	batches, reports := FetchAll(context.Background(), adapters, &buf)

	if len(batches) != 3 {
		t.Fatalf("len(batches) = %d, want 3", len(batches))
	}
	if len(batches[0]) != 1 || batches[0][0].Title != "A" {
		t.Errorf("batches[0] = %+v, want first adapter's records", batches[0])
	}
	if len(batches[1]) != 0 {
		t.Errorf("failed adapter should contribute an empty batch, got %+v", batches[1])
	}
	if len(batches[2]) != 2 {
		t.Errorf("batches[2] has %d records, want 2", len(batches[2]))
	}

	if reports[1].Err == nil {
		t.Error("reports[1].Err should record the failure")
	}
	if reports[2].Count != 2 {
		t.Errorf("reports[2].Count = %d, want 2", reports[2].Count)
	}
	if batches[0][0].Origin != "first" {
		t.Errorf("Origin = %q, want adapter name", batches[0][0].Origin)
	}
}

// testWriter captures FetchAll warnings; FetchAll serializes writes.
type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
