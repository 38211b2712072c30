package core

// FieldInfo describes a normalizable metadata field of the document schema.
type FieldInfo struct {
	Key   string
	Label string
}

// DefaultFields returns the fields eligible for term normalization.
// The registry mirrors the generic attributes of the document schema that
// carry controlled vocabulary; free-text fields are deliberately absent.
func DefaultFields() []FieldInfo {
	return []FieldInfo{
		{Key: "Descritores", Label: "Descritores"},
		{Key: "Meio Processual", Label: "Meio Processual"},
		{Key: "Decisão", Label: "Decisão"},
	}
}

// KnownField reports whether key names a field of the registry.
func KnownField(fields []FieldInfo, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
