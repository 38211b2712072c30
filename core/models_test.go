package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "ECLI:PT:STJ:2020:100.20",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "accented content",
			content: "Acórdão do Supremo Tribunal de Justiça",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("ECLI:PT:STJ:2020:100.20")
	id2 := IDFromContent("ECLI:PT:STJ:2020:100.21")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestGenericField_Clone(t *testing.T) {
	field := GenericField{
		Show:     []string{"Acórdão"},
		Index:    []string{"Acórdão"},
		Original: []string{"Acordão "},
	}

	clone := field.Clone()
	clone.Show[0] = "changed"
	clone.Index = append(clone.Index, "extra")

	if field.Show[0] != "Acórdão" {
		t.Errorf("Clone() shares Show backing array with original")
	}
	if len(field.Index) != 1 {
		t.Errorf("Clone() shares Index backing array with original")
	}
	if field.Original[0] != "Acordão " {
		t.Errorf("Clone() altered Original")
	}
}

func TestCluster_TotalFrequency(t *testing.T) {
	c := Cluster{
		Canonical: Term{Key: "Acordão", Frequency: 100},
		Irregulars: []Irregularity{
			{Term: Term{Key: "Acórdão", Frequency: 5}},
			{Term: Term{Key: "acordão", Frequency: 2}},
		},
	}

	if got := c.TotalFrequency(); got != 107 {
		t.Errorf("TotalFrequency() = %d, want 107", got)
	}
	if got := c.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
}

func TestFilterSet_Contains(t *testing.T) {
	date := func(y int) time.Time { return time.Date(y, 6, 15, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		filters FilterSet
		ts      time.Time
		want    bool
	}{
		{
			name:    "zero filter contains everything",
			filters: FilterSet{},
			ts:      date(1990),
			want:    true,
		},
		{
			name:    "inside window",
			filters: FilterSet{MinDate: date(2010), MaxDate: date(2020)},
			ts:      date(2015),
			want:    true,
		},
		{
			name:    "before window",
			filters: FilterSet{MinDate: date(2010)},
			ts:      date(2005),
			want:    false,
		},
		{
			name:    "after window",
			filters: FilterSet{MaxDate: date(2020)},
			ts:      date(2021),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKnownField(t *testing.T) {
	fields := DefaultFields()

	if !KnownField(fields, "Descritores") {
		t.Errorf("KnownField() should accept a registry field")
	}
	if KnownField(fields, "Sumário") {
		t.Errorf("KnownField() should reject a field outside the registry")
	}
}
