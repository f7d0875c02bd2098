package badger

import (
	"encoding/binary"

	"github.com/poiesic/geosuggest/core"
)

// Key prefixes for different data types
const (
	countryRecordPrefix = "ctry"
	countryIDPrefix     = "ctryid"
	countryPositionSeq  = "ctryseq"
)

// makeCountryKey generates a key for a record by its insertion position.
// Format: prefix:position
func makeCountryKey(position uint64) []byte {
	return makeUint64Key(countryRecordPrefix, position)
}

// makeCountryIDKey generates a key for the ID index.
// Format: prefix:id
func makeCountryIDKey(id core.ID) []byte {
	return makeUint64Key(countryIDPrefix, uint64(id))
}

// countryScanPrefix is the prefix shared by all record keys, and no index keys.
func countryScanPrefix() []byte {
	return []byte(countryRecordPrefix + ":")
}

func makeUint64Key(prefix string, v uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], v)
	return buf
}
