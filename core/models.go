package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. Documents use the
// ECLI as content so re-importing the same decision yields the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// GenericField holds the three parallel representations of a metadata value.
// Original is raw provenance data and is never rewritten by normalization;
// Show is the human-facing rendering and Index the retrieval-facing one.
type GenericField struct {
	Show     []string
	Index    []string
	Original []string
}

// Clone returns a deep copy of the field.
func (f GenericField) Clone() GenericField {
	out := GenericField{}
	if f.Show != nil {
		out.Show = append([]string(nil), f.Show...)
	}
	if f.Index != nil {
		out.Index = append([]string(nil), f.Index...)
	}
	if f.Original != nil {
		out.Original = append([]string(nil), f.Original...)
	}
	return out
}

// Document represents a single jurisprudence decision with its metadata fields.
type Document struct {
	Id         ID
	ECLI       string
	Date       time.Time // Date of the decision
	Fields     map[string]GenericField
	InsertedAt time.Time // When the record was inserted into the database
	UpdatedAt  time.Time // When the record was last updated
}

// Term is a distinct observed value of a metadata field with its document frequency.
// Frequency is a document count; it is only meaningful within a single catalog fetch.
type Term struct {
	Key       string
	Frequency int
}

// Irregularity is a non-canonical cluster member, a candidate to be merged
// into the canonical term. IsAlternative marks a genuine frequency tie with
// the canonical rather than a likely typo.
type Irregularity struct {
	Term          Term
	Similarity    float64
	IsAlternative bool
}

// Cluster is a group of similar terms with a chosen canonical form.
// Clusters always have at least one irregular; singleton components are
// never emitted as clusters.
type Cluster struct {
	Canonical  Term
	Irregulars []Irregularity
}

// TotalFrequency returns the summed document frequency of all cluster members.
func (c *Cluster) TotalFrequency() int {
	total := c.Canonical.Frequency
	for _, ir := range c.Irregulars {
		total += ir.Term.Frequency
	}
	return total
}

// Size returns the number of terms in the cluster, canonical included.
func (c *Cluster) Size() int {
	return 1 + len(c.Irregulars)
}

// FilterSet restricts a catalog fetch or aggregation to a date window.
// A zero MinDate or MaxDate leaves that side unbounded.
type FilterSet struct {
	MinDate time.Time
	MaxDate time.Time
}

// IsZero reports whether no filter is set.
func (f FilterSet) IsZero() bool {
	return f.MinDate.IsZero() && f.MaxDate.IsZero()
}

// Contains reports whether t falls inside the filter window.
func (f FilterSet) Contains(t time.Time) bool {
	if !f.MinDate.IsZero() && t.Before(f.MinDate) {
		return false
	}
	if !f.MaxDate.IsZero() && t.After(f.MaxDate) {
		return false
	}
	return true
}

// NormalizationRequest is an operator-issued command to rewrite one term to
// another across the document store. It is never persisted.
type NormalizationRequest struct {
	Field     string
	FromValue string
	ToValue   string
}
