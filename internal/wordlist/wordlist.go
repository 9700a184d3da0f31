// Package wordlist loads practice word lists.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

//go:embed words_en.txt
var defaultWords string

// ErrEmpty is returned when a word list contains no usable words.
var ErrEmpty = errors.New("word list is empty")

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file, nil)
}

// LoadOrDefault loads path, falling back to the embedded English list when
// path is empty or does not exist. The returned source names where the
// words came from.
func LoadOrDefault(path string) (words []string, source string, err error) {
	if path != "" {
		words, err = LoadWords(path)
		if err == nil {
			return words, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to load word list %s: %w", path, err)
		}
	}
	words, err = Default()
	return words, "embedded", err
}

// Default returns the embedded English word list.
func Default() ([]string, error) {
	return ReadWords(strings.NewReader(defaultWords), FilterEnglishASCII)
}

// ReadWords reads one word per line, skipping blanks and words rejected by
// filter. A nil filter keeps every word.
func ReadWords(r io.Reader, filter FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// FilterEnglishASCII keeps lowercase ASCII words.
func FilterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
