package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/jurisnorm/jurisnorm/core"
)

// Key prefixes for different data types
const (
	docRecordPrefix = "jurdoc"
	docDatePrefix   = "jurdocd"
	docFieldPrefix  = "jurdocf"
)

// fieldKeySep separates the field, value and id segments of a field-value
// index key. 0x1f (ASCII unit separator) never occurs in catalog values.
const fieldKeySep = byte(0x1f)

// makeDocumentKey generates a key for a document record by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", docRecordPrefix, id))
}

// dateKeyMicros encodes a timestamp so lexicographic byte order matches
// chronological order. Flipping the sign bit keeps pre-1970 decision
// dates (negative UnixMicro) sorting before modern ones.
func dateKeyMicros(timestamp time.Time) uint64 {
	return uint64(timestamp.UnixMicro()) ^ (1 << 63)
}

// makeDocDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeDocDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := docDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], dateKeyMicros(timestamp))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDocDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialDocDateKey(timestamp time.Time) []byte {
	prefix := docDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], dateKeyMicros(timestamp))
	return buf
}

// makeFieldValueKey generates a composite key for the field-value index.
// Format: prefix:field<sep>value<sep>id
func makeFieldValueKey(field, value string, id core.ID) []byte {
	prefix := makePartialFieldValueKey(field, value)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialFieldValueKey generates a partial key for field-value queries.
// Format: prefix:field<sep>value<sep>
func makePartialFieldValueKey(field, value string) []byte {
	prefix := docFieldPrefix + ":"
	totalSize := len(prefix) + len(field) + 1 + len(value) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(field))
	buf[offset] = fieldKeySep
	offset++
	offset += copy(buf[offset:], []byte(value))
	buf[offset] = fieldKeySep
	return buf
}

// makeFieldScanPrefix generates the scan prefix covering every value of a field.
// Format: prefix:field<sep>
func makeFieldScanPrefix(field string) []byte {
	prefix := docFieldPrefix + ":"
	totalSize := len(prefix) + len(field) + 1
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(field))
	buf[offset] = fieldKeySep
	return buf
}

// splitFieldValueKey extracts the value and document ID from a field-value
// index key, given the scan prefix of its field.
func splitFieldValueKey(key, fieldScanPrefix []byte) (value string, id core.ID, ok bool) {
	rest := key[len(fieldScanPrefix):]
	if len(rest) < 9 { // at least the trailing separator and an 8 byte ID
		return "", 0, false
	}
	sep := len(rest) - 9
	if rest[sep] != fieldKeySep {
		return "", 0, false
	}
	value = string(rest[:sep])
	id = core.ID(binary.BigEndian.Uint64(rest[sep+1:]))
	return value, id, true
}
