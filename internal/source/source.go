// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source collects candidate publication records from upstream
// origins. Each adapter wraps one origin (a structured API, a local
// file) behind the same capability: produce zero or more candidate
// records. The reconciliation engine never branches on source identity;
// priority is carried entirely by adapter order.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Adapter produces candidate records from one upstream origin.
type Adapter interface {
	Name() string
	Records(ctx context.Context) ([]types.Record, error)
}

// Report summarizes one adapter's contribution to a run.
type Report struct {
	Name  string
	Count int
	Err   error
}

// Build constructs adapters from specs, preserving spec order. Unknown
// kinds and incomplete specs are configuration errors.
func Build(specs []types.SourceSpec, cfg types.FetchConfig, client *http.Client) ([]Adapter, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}

	adapters := make([]Adapter, 0, len(specs))
	for i, spec := range specs {
		name := spec.Name
		if name == "" {
			name = string(spec.Kind)
		}

		switch spec.Kind {
		case types.KindInspire:
			if spec.AuthorID == "" {
				return nil, fmt.Errorf("source %d (%s): author_id is required", i, name)
			}
			adapters = append(adapters, &InspireAdapter{
				Client: client, AuthorID: spec.AuthorID, Label: name, Config: cfg,
			})
		case types.KindOpenAlex:
			if spec.AuthorID == "" {
				return nil, fmt.Errorf("source %d (%s): author_id is required", i, name)
			}
			adapters = append(adapters, &OpenAlexAdapter{
				Client: client, AuthorID: spec.AuthorID, Label: name, Config: cfg,
			})
		case types.KindFile:
			if spec.Path == "" {
				return nil, fmt.Errorf("source %d (%s): path is required", i, name)
			}
			adapters = append(adapters, &FileAdapter{Path: spec.Path, Label: name})
		default:
			return nil, fmt.Errorf("source %d (%s): unknown kind %q", i, name, spec.Kind)
		}
	}
	return adapters, nil
}

// FetchAll runs every adapter concurrently and collects results into
// slots matching adapter order, so batch priority is independent of
// completion order. A failing adapter contributes an empty batch and a
// warning on w; failure is not escalated here because the engine runs
// correctly degraded to whichever sources succeeded.
func FetchAll(ctx context.Context, adapters []Adapter, w io.Writer) ([][]types.Record, []Report) {
	batches := make([][]types.Record, len(adapters))
	reports := make([]Report, len(adapters))

	var wg sync.WaitGroup
	var mu sync.Mutex // serializes warning output

	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			records, err := a.Records(ctx)
			if err != nil {
				mu.Lock()
				fmt.Fprintf(w, "warning: source %s failed: %v\n", a.Name(), err)
				mu.Unlock()
				reports[i] = Report{Name: a.Name(), Err: err}
				return
			}
			for j := range records {
				if records[j].Origin == "" {
					records[j].Origin = a.Name()
				}
			}
			batches[i] = records
			reports[i] = Report{Name: a.Name(), Count: len(records)}
		}(i, a)
	}
	wg.Wait()

	return batches, reports
}
