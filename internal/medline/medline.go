// Package medline parses MEDLINE-format text as returned by PubMed's
// efetch endpoint and maps it onto bibliographic records.
//
// The format is line oriented: a four-character tag, a dash in column
// five, then the value ("PMID- 12345678", "TI  - Some title"). Values
// wrap onto continuation lines indented with six spaces, and records are
// separated by blank lines. Tags such as AU, AD and PT repeat.
package medline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Fields holds the tagged values of one MEDLINE record. Repeating tags map
// to their values in document order.
type Fields map[string][]string

// Get returns the first value recorded for tag, or the empty string.
func (f Fields) Get(tag string) string {
	if vals := f[tag]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Parse reads MEDLINE-format text into per-record field sets.
func Parse(r io.Reader) ([]Fields, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Fields
	var cur Fields
	var curTag string

	flush := func() {
		if len(cur) > 0 {
			records = append(records, cur)
		}
		cur = nil
		curTag = ""
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		// Continuation lines are indented six spaces and extend the
		// previous field's last value.
		if strings.HasPrefix(line, "      ") && curTag != "" {
			vals := cur[curTag]
			vals[len(vals)-1] += " " + strings.TrimSpace(line)
			continue
		}

		if len(line) >= 5 && line[4] == '-' {
			tag := strings.TrimSpace(line[:4])
			value := strings.TrimSpace(line[5:])
			if tag == "" {
				continue
			}
			if cur == nil {
				cur = make(Fields)
			}
			cur[tag] = append(cur[tag], value)
			curTag = tag
			continue
		}

		// A non-empty line that is neither tagged nor a continuation:
		// fold it into the current value rather than losing data.
		if curTag != "" {
			vals := cur[curTag]
			vals[len(vals)-1] += " " + strings.TrimSpace(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MEDLINE text: %w", err)
	}
	flush()

	return records, nil
}
