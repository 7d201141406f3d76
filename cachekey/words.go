package cachekey

import "errors"

// ErrEmptyWord is returned by Words.Validate when a word in the list has
// zero length.
var ErrEmptyWord = errors.New("cachekey: invalidation word is empty")

// Word is one invalidation tag a Put is indexed under (a table name, for
// MaxScale's usage, but the cache itself treats it as an opaque string).
type Word []byte

// String renders the word for logging.
func (w Word) String() string {
	return string(w)
}

// Words is the ordered list of invalidation words a Put is indexed
// under, or an Invalidate call is issued against. Order is preserved and
// duplicates are not removed; the caller controls both.
type Words []Word

// Validate reports an error if any word is empty. An empty Words list
// itself is valid (a Put with no invalidation words, or a no-op
// Invalidate).
func (ws Words) Validate() error {
	for _, w := range ws {
		if len(w) == 0 {
			return ErrEmptyWord
		}
	}
	return nil
}

// Strings renders each word as a string, for logging and activity
// events.
func (ws Words) Strings() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = string(w)
	}
	return out
}
