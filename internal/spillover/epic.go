package spillover

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"spillover/internal/jira"
)

// TitleStatus tags the outcome of one epic title lookup. Rendering to a
// display string happens only at the formatting boundary.
type TitleStatus int

const (
	// TitleResolved means the lookup succeeded and the title is non-empty.
	TitleResolved TitleStatus = iota
	// TitleNone means the epic exists but its title field is empty.
	TitleNone
	// TitleLookupFailed means the per-key lookup failed; the batch continues.
	TitleLookupFailed
)

// EpicTitle is the resolved title of one epic, or the reason there is none.
type EpicTitle struct {
	Status TitleStatus
	Name   string
}

// Resolver batch-resolves epic keys to their human-readable titles.
type Resolver struct {
	Client    *jira.Client
	NameField string // custom field id holding the epic name
	Workers   int    // concurrent lookups; <=1 means serial
	Logger    *slog.Logger
}

// Titles resolves every distinct non-blank key to an EpicTitle, issuing
// exactly one lookup per distinct key. A failed lookup records
// TitleLookupFailed for that key and never aborts the rest of the batch.
func (r *Resolver) Titles(ctx context.Context, keys []string) map[string]EpicTitle {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	distinct := dedupeKeys(keys)
	results := make([]EpicTitle, len(distinct))

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range distinct {
		g.Go(func() error {
			results[i] = r.lookup(gctx, logger, key)
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors

	titles := make(map[string]EpicTitle, len(distinct))
	for i, key := range distinct {
		titles[key] = results[i]
	}
	return titles
}

func (r *Resolver) lookup(ctx context.Context, logger *slog.Logger, key string) EpicTitle {
	issue, err := r.Client.Issue(ctx, key, r.NameField)
	if err != nil {
		logger.WarnContext(ctx, "epic lookup failed", "epic", key, "error", err)
		return EpicTitle{Status: TitleLookupFailed}
	}
	logger.InfoContext(ctx, "epic resolved", "epic", key)

	name, ok := issue.Fields.CustomString(r.NameField)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return EpicTitle{Status: TitleNone}
	}
	return EpicTitle{Status: TitleResolved, Name: name}
}

// dedupeKeys drops blanks and duplicates, keeping first-seen order.
func dedupeKeys(keys []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
