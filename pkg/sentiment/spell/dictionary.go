package spell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadDictionary reads a frequency dictionary file with the term in
// column 0 and its count in column 1.
func LoadDictionary(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	entries, err := ReadDictionary(f, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return entries, nil
}

// ReadDictionary parses whitespace-separated lines, taking the term and
// count from the given column positions. Lines that are too short or
// whose count does not parse are skipped.
func ReadDictionary(r io.Reader, termIndex, countIndex int) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= termIndex || len(fields) <= countIndex {
			continue
		}
		count, err := strconv.ParseInt(fields[countIndex], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Term: fields[termIndex], Count: count})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no dictionary entries")
	}
	return entries, nil
}
