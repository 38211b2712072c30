package badger

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/storage"
)

// TermCatalog implements storage.TermCatalog for BadgerDB.
// Aggregations are computed by scanning the field-value and date indices;
// nothing is cached between calls.
type TermCatalog struct {
	backend *Backend
}

var _ storage.TermCatalog = (*TermCatalog)(nil)

// NewTermCatalog creates a new TermCatalog.
func NewTermCatalog(backend *Backend) (*TermCatalog, error) {
	return &TermCatalog{
		backend: backend,
	}, nil
}

// FetchTerms returns the terms observed in the field's Show projection,
// ordered by descending frequency then ascending key, up to size terms.
func (c *TermCatalog) FetchTerms(ctx context.Context, field string, filters core.FilterSet, size int) ([]core.Term, bool, error) {
	if size <= 0 {
		return nil, false, storage.ErrInvalidQuery
	}

	counts, err := c.countTerms(ctx, field, filters)
	if err != nil {
		return nil, false, err
	}

	terms := make([]core.Term, 0, len(counts))
	for key, freq := range counts {
		terms = append(terms, core.Term{Key: key, Frequency: freq})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Frequency != terms[j].Frequency {
			return terms[i].Frequency > terms[j].Frequency
		}
		return terms[i].Key < terms[j].Key
	})

	truncated := len(terms) > size
	if truncated {
		terms = terms[:size]
	}
	return terms, truncated, nil
}

// RareTerms returns the terms whose frequency is <= maxCount,
// ordered by ascending frequency then ascending key.
func (c *TermCatalog) RareTerms(ctx context.Context, field string, filters core.FilterSet, maxCount int) ([]core.Term, error) {
	if maxCount <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	counts, err := c.countTerms(ctx, field, filters)
	if err != nil {
		return nil, err
	}

	var terms []core.Term
	for key, freq := range counts {
		if freq <= maxCount {
			terms = append(terms, core.Term{Key: key, Frequency: freq})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Frequency != terms[j].Frequency {
			return terms[i].Frequency < terms[j].Frequency
		}
		return terms[i].Key < terms[j].Key
	})
	return terms, nil
}

// Timeline returns document counts bucketed by the given interval,
// ordered by ascending bucket date. Empty buckets are omitted.
func (c *TermCatalog) Timeline(ctx context.Context, interval storage.Interval, filters core.FilterSet) ([]storage.TimelineBucket, error) {
	switch interval {
	case storage.IntervalDay, storage.IntervalWeek, storage.IntervalMonth, storage.IntervalYear:
	default:
		return nil, storage.ErrInvalidInterval
	}

	buckets := make(map[time.Time]*storage.TimelineBucket)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(docDatePrefix + ":")
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().Key()
			if !hasPrefix(key, prefix) {
				break
			}

			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc == nil || !filters.Contains(doc.Date) {
				continue
			}

			start := bucketStart(doc.Date, interval)
			b, ok := buckets[start]
			if !ok {
				b = &storage.TimelineBucket{Date: start}
				buckets[start] = b
			}
			b.Count++
			b.ECLIs = append(b.ECLIs, doc.ECLI)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	results := make([]storage.TimelineBucket, 0, len(buckets))
	for _, b := range buckets {
		results = append(results, *b)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Date.Before(results[j].Date)
	})
	return results, nil
}

// countTerms scans the field-value index and returns the document frequency
// of every distinct Show value of the field. Each index entry is one
// distinct document, so counting entries counts documents.
func (c *TermCatalog) countTerms(ctx context.Context, field string, filters core.FilterSet) (map[string]int, error) {
	counts := make(map[string]int)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		scanPrefix := makeFieldScanPrefix(field)
		for iter.Seek(scanPrefix); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().Key()
			if !hasPrefix(key, scanPrefix) {
				break
			}

			value, id, ok := splitFieldValueKey(key, scanPrefix)
			if !ok {
				continue
			}

			if !filters.IsZero() {
				doc, err := readDocument(tx, makeDocumentKey(id))
				if err != nil {
					return err
				}
				if doc == nil || !filters.Contains(doc.Date) {
					continue
				}
			}

			counts[value]++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// bucketStart truncates t to the start of its timeline bucket in UTC.
// Weeks start on Monday.
func bucketStart(t time.Time, interval storage.Interval) time.Time {
	t = t.UTC()
	switch interval {
	case storage.IntervalDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case storage.IntervalWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case storage.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default: // storage.IntervalYear
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}
