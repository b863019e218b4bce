package agent

import (
	"context"
	"time"

	"faq/cache"
	"faq/types"
)

// RecordSource provides the live Q&A rows.
type RecordSource interface {
	Records(ctx context.Context) ([]types.QARecord, error)
}

// ListingCache caches the Q&A rows for ttl; zero keeps them until invalidated.
func ListingCache(source RecordSource, ttl time.Duration) *cache.Cache[[]types.QARecord] {
	return cache.New[[]types.QARecord]("listing", ttl, source.Records)
}

// Listing returns the records for lang, numbered from 1 in sheet order.
func Listing(records []types.QARecord, lang types.Lang) []types.FAQEntry {
	entries := make([]types.FAQEntry, 0)
	for _, rec := range records {
		if rec.Lang != lang {
			continue
		}
		entries = append(entries, types.FAQEntry{
			Number:   len(entries) + 1,
			Question: rec.Question,
			Answer:   rec.Answer,
		})
	}
	return entries
}
