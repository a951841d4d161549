// Package reconcile classifies scraped entries against the stored set.
package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"examnotify/models"
	"examnotify/scraper"
	"examnotify/store"
)

type Reconciler struct {
	store *store.Store
	log   zerolog.Logger
}

func New(st *store.Store, log zerolog.Logger) *Reconciler {
	return &Reconciler{store: st, log: log}
}

// Reconcile walks the scraped entries in page order and decides, per entry,
// whether it is brand-new (insert), a link change to a known announcement
// (update in place) or an unchanged duplicate (skip). It returns the
// notifications that require a push, in order of discovery.
//
// A persistence failure on one entry, such as a unique-index violation from
// a racing pass, drops that entry and moves on; it never aborts the batch.
func (r *Reconciler) Reconcile(ctx context.Context, entries []scraper.Entry) []models.Notification {
	changed := []models.Notification{}
	seen := make(map[uint]bool)

	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		url := strings.TrimSpace(e.URL)
		if text == "" || url == "" {
			continue
		}

		// Exact pairs are checked before the OR-match so an unchanged
		// announcement never reaches the update branch.
		if _, err := r.store.FindExact(ctx, text, url); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error().Err(err).Str("text", text).Msg("exact lookup failed")
			continue
		}

		match, err := r.store.FindPartial(ctx, text, url)
		switch {
		case err == nil:
			if match.URL == url {
				// Same link, different text on another row; leave it alone.
				continue
			}
			updated, uerr := r.store.Update(ctx, match.ID, text, url)
			if uerr != nil {
				r.log.Warn().Err(uerr).Uint("id", match.ID).Msg("update discarded")
				continue
			}
			r.log.Info().Uint("id", updated.ID).Str("url", url).Msg("announcement link updated")
			if !seen[updated.ID] {
				seen[updated.ID] = true
				changed = append(changed, *updated)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, cerr := r.store.Insert(ctx, text, url)
			if cerr != nil {
				r.log.Warn().Err(cerr).Str("text", text).Msg("insert discarded")
				continue
			}
			r.log.Info().Uint("id", created.ID).Str("text", text).Msg("new announcement stored")
			if !seen[created.ID] {
				seen[created.ID] = true
				changed = append(changed, *created)
			}
		default:
			r.log.Error().Err(err).Str("text", text).Msg("partial lookup failed")
		}
	}
	return changed
}
