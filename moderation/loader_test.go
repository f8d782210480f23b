package moderation

import (
	"synaptik/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word, with comments and CRLF endings
	fsys := fstest.MapFS{
		"words/en.txt":     {Data: []byte("# comment\r\nBadger\r\nsnake\r\n\r\n")},
		"words/fr.txt":     {Data: []byte("blaireau\nbadger\n")},
		"words/README.md":  {Data: []byte("not a dictionary")},
		"words/sub/de.txt": {Data: []byte("dachs\n")},
	}

	// When loading
	data, err := NewCensoredLoader(fsys).LoadAll("words")

	// Then words are unique, lowercased and sorted
	req.NoError(err)
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{"words/en.txt": {Data: []byte("# nothing here\n\n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("words")
	req.ErrorIs(err, errors.ErrEmptyWords)

	_, err = NewCensoredLoader(fsys).LoadAll("missing")
	req.Error(err)
}
