// Package rle reads Life patterns in the run-length encoded text format.
//
// A pattern file is a set of '#' header lines (#N name, #O author, #X start
// offset, anything else is a comment), one extent line such as
//
//	x = 3, y = 3, rule = B3/S23
//
// and an RLE body where 'b' is a run of dead cells, any other letter a run of
// live cells, '$' ends a row and '!' ends the pattern.
package rle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformed reports a pattern without a usable extent line.
	ErrMalformed = errors.New("rle: malformed pattern")
	// ErrTooLarge reports a pattern whose declared extent exceeds the grid.
	ErrTooLarge = errors.New("rle: pattern too large")
)

// maxLine bounds a single line of a pattern file.
const maxLine = 1 << 20

// Offset is an explicit start position given by a #X line, in visible
// matrix coordinates. Each axis is optional.
type Offset struct {
	X, Y       int
	HasX, HasY bool
}

// Pattern is the parsed content of one pattern file.
type Pattern struct {
	Name    string
	Author  string
	Comment string

	// Width and Height are the declared extent; 0 means unknown.
	Width  int
	Height int

	Offset Offset

	// Rule is captured from the extent line but not applied; the engine
	// always runs B3/S23.
	Rule string
	Body string

	// Source names the file the pattern was read from, if known.
	Source string
}

// Title returns the pattern name, falling back to its source.
func (p *Pattern) Title() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Source
}

// Parse reads a pattern file. It returns ErrMalformed when the extent line
// is missing or cannot be read.
func Parse(r io.Reader) (*Pattern, error) {
	p := &Pattern{}
	var (
		body     strings.Builder
		comments []string
		header   bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "#"):
			tag, rest := headerTag(line)
			switch tag {
			case 'N':
				p.Name = joinField(p.Name, rest)
			case 'O':
				p.Author = joinField(p.Author, rest)
			case 'X':
				parseOffset(rest, &p.Offset)
			default:
				comments = append(comments, rest)
			}
		case strings.HasPrefix(line, "x"):
			w, h, rule, ok := parseExtent(line)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: bad extent %q", ErrMalformed, lineNo, line)
			}
			p.Width, p.Height, p.Rule = w, h, rule
			header = true
		default:
			if s := strings.TrimSpace(line); s != "" {
				body.WriteString(s)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("rle: read: %w", err)
	}
	if !header {
		return nil, fmt.Errorf("%w: no extent line", ErrMalformed)
	}
	p.Comment = strings.Join(comments, "\n")
	p.Body = body.String()
	return p, nil
}

// headerTag splits a '#' line into its tag letter and trimmed remainder.
func headerTag(line string) (byte, string) {
	if len(line) < 2 {
		return 0, ""
	}
	return line[1], strings.TrimSpace(line[2:])
}

func joinField(cur, next string) string {
	switch {
	case cur == "":
		return next
	case next == "":
		return cur
	}
	return cur + " " + next
}
