// Copyright 2025 Jurisnorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package jurisnorm

import (
	"log/slog"

	"github.com/jurisnorm/jurisnorm/analysis"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/normalize"
	"github.com/jurisnorm/jurisnorm/storage"
	"github.com/jurisnorm/jurisnorm/storage/badger"
)

// Database bundles the storage backend with the repositories and the
// field registry, and hands out analyzers and executors wired to them.
type Database struct {
	backend *badger.Backend
	docRepo storage.DocumentRepository
	catalog storage.TermCatalog
	fields  []core.FieldInfo
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	fields []core.FieldInfo
}

// WithFields overrides the default field registry.
func WithFields(fields []core.FieldInfo) DatabaseOption {
	return func(o *databaseOptions) {
		if len(fields) > 0 {
			o.fields = fields
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		fields: core.DefaultFields(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create document repository
	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create term catalog
	catalog, err := badger.NewTermCatalog(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend: backend,
		docRepo: docRepo,
		catalog: catalog,
		fields:  options.fields,
		logger:  slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close repository
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) TermCatalog() storage.TermCatalog {
	return db.catalog
}

// Fields returns the field registry the database was opened with.
func (db *Database) Fields() []core.FieldInfo {
	return db.fields
}

func (db *Database) NewAnalyzer(opts ...analysis.Option) (*analysis.Analyzer, error) {
	return analysis.NewAnalyzer(db.catalog, db.fields, opts...)
}

func (db *Database) NewExecutor(opts ...normalize.Option) (*normalize.Executor, error) {
	return normalize.NewExecutor(db.docRepo, db.fields, opts...)
}
