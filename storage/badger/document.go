package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocuments adds one or more documents to storage.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			// Use content-based ID if not set
			if doc.Id == 0 {
				doc.Id = core.IDFromContent(doc.ECLI)
			}

			key := makeDocumentKey(doc.Id)

			// Re-importing the same ECLI overwrites; clean the prior
			// version's index entries so none are orphaned
			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}

			// Set timestamps
			doc.InsertedAt = time.Now().UTC()
			doc.UpdatedAt = doc.InsertedAt
			if old != nil {
				doc.InsertedAt = old.InsertedAt
				if err := tx.Delete(makeDocDateKey(old.Date, old.Id)); err != nil {
					return err
				}
				if err := deleteFieldIndices(tx, old); err != nil {
					return err
				}
			}

			// Store primary record
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Store date index
			if err := tx.Set(makeDocDateKey(doc.Date, doc.Id), storage.MarshalID(doc.Id)); err != nil {
				return err
			}

			// Store field-value indices over the Show projection
			if err := writeFieldIndices(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// UpdateDocuments updates existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			key := makeDocumentKey(doc.Id)

			// Read old document to detect index changes
			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			doc.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if the decision date changed
			if !old.Date.Equal(doc.Date) {
				if err := tx.Delete(makeDocDateKey(old.Date, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeDocDateKey(doc.Date, doc.Id), storage.MarshalID(doc.Id)); err != nil {
					return err
				}
			}

			// Rewrite field-value indices
			if err := deleteFieldIndices(tx, old); err != nil {
				return err
			}
			if err := writeFieldIndices(tx, doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			// Read document to get metadata for index cleanup
			doc, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			// Delete from date index
			if err := tx.Delete(makeDocDateKey(doc.Date, doc.Id)); err != nil {
				return err
			}

			// Delete from field-value indices
			if err := deleteFieldIndices(tx, doc); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		var err error
		result, err = readDocument(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDocuments retrieves multiple documents by their IDs.
func (r *DocumentRepository) GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error) {
	var result []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)
			doc, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc != nil {
				result = append(result, doc)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetDocumentsByDateRange retrieves documents within a time range.
// Returns documents where start <= Date < end, ordered by date.
func (r *DocumentRepository) GetDocumentsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialDocDateKey(start)
		endKey := makePartialDocDateKey(end)
		prefix := []byte(docDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !hasPrefix(key, prefix) {
				break
			}
			// Stop once past the end of the range (exclusive)
			if string(key[:len(endKey)]) >= string(endKey) {
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
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindByFieldValue retrieves documents whose field's Show projection
// contains an element exactly equal to value, up to limit documents.
func (r *DocumentRepository) FindByFieldValue(ctx context.Context, field, value string, limit int) ([]*core.Document, bool, error) {
	if limit <= 0 {
		return nil, false, storage.ErrInvalidQuery
	}

	var results []*core.Document
	truncated := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialFieldValueKey(field, value)
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().Key()
			if !hasPrefix(key, prefix) {
				break
			}
			if len(results) >= limit {
				truncated = true
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
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)

	return results, truncated, err
}

// UpdateDocumentField replaces the Show and Index projections of one field
// on one document. The stored Original projection is always retained.
func (r *DocumentRepository) UpdateDocumentField(ctx context.Context, id core.ID, field string, value core.GenericField) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		old := doc.Fields[field]

		// Drop the old index entries for this field only
		for _, v := range dedupe(old.Show) {
			if err := tx.Delete(makeFieldValueKey(field, v, doc.Id)); err != nil {
				return err
			}
		}

		updated := value.Clone()
		updated.Original = old.Original
		if doc.Fields == nil {
			doc.Fields = make(map[string]core.GenericField)
		}
		doc.Fields[field] = updated
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		for _, v := range dedupe(updated.Show) {
			if err := tx.Set(makeFieldValueKey(field, v, doc.Id), storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// hasPrefix checks if a byte slice has a given prefix
func hasPrefix(s, prefix []byte) bool {
	return len(s) >= len(prefix) && string(s[:len(prefix)]) == string(prefix)
}

// readDocument reads a document from the transaction.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}

// writeFieldIndices writes one field-value index entry per distinct Show
// value of every field on the document.
func writeFieldIndices(tx *badger.Txn, doc *core.Document) error {
	for field, gf := range doc.Fields {
		for _, v := range dedupe(gf.Show) {
			if err := tx.Set(makeFieldValueKey(field, v, doc.Id), storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// deleteFieldIndices removes every field-value index entry of the document.
func deleteFieldIndices(tx *badger.Txn, doc *core.Document) error {
	for field, gf := range doc.Fields {
		for _, v := range dedupe(gf.Show) {
			if err := tx.Delete(makeFieldValueKey(field, v, doc.Id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// dedupe returns the distinct values of vs, preserving first-seen order.
// A document that repeats a term still counts once in the index.
func dedupe(vs []string) []string {
	if len(vs) <= 1 {
		return vs
	}
	seen := make(map[string]struct{}, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
