package rle

import (
	"strconv"
	"strings"
)

// scanner is a cursor over a single header line.
type scanner struct {
	s   string
	pos int
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.s) {
		return 0
	}
	return s.s[s.pos]
}

// lit consumes c if it is next.
func (s *scanner) lit(c byte) bool {
	if s.peek() != c {
		return false
	}
	s.pos++
	return true
}

// number consumes an optionally signed decimal integer.
func (s *scanner) number(signed bool) (int, bool) {
	start := s.pos
	if signed && s.peek() == '-' {
		s.pos++
	}
	digits := s.pos
	for s.pos < len(s.s) && isDigit(s.s[s.pos]) {
		s.pos++
	}
	if s.pos == digits {
		s.pos = start
		return 0, false
	}
	n, err := strconv.Atoi(s.s[start:s.pos])
	if err != nil {
		s.pos = start
		return 0, false
	}
	return n, true
}

// assign consumes `<name> ?= ?<int>`: at most one space on each side of '='.
func (s *scanner) assign(name byte, signed bool) (int, bool) {
	start := s.pos
	if !s.lit(name) {
		return 0, false
	}
	s.lit(' ')
	if !s.lit('=') {
		s.pos = start
		return 0, false
	}
	s.lit(' ')
	n, ok := s.number(signed)
	if !ok {
		s.pos = start
		return 0, false
	}
	return n, true
}

// parseExtent reads `x = <w>, y = <h>[, rule = <rule>]`. The line must start
// with the x assignment; anything may separate it from the y assignment, and
// the last valid `y = <int>` is used.
func parseExtent(line string) (w, h int, rule string, ok bool) {
	s := &scanner{s: line}
	if w, ok = s.assign('x', false); !ok {
		return 0, 0, "", false
	}
	found := false
	for i := len(line) - 1; i >= s.pos; i-- {
		if line[i] != 'y' {
			continue
		}
		t := &scanner{s: line, pos: i}
		if v, vok := t.assign('y', false); vok {
			h, found = v, true
			s = t
			break
		}
	}
	if !found {
		return 0, 0, "", false
	}
	return w, h, parseRule(line[s.pos:]), true
}

// parseRule returns the text after `rule =` in tail, if present.
func parseRule(tail string) string {
	i := strings.LastIndex(tail, "rule")
	if i < 0 {
		return ""
	}
	s := &scanner{s: tail, pos: i + len("rule")}
	s.lit(' ')
	if !s.lit('=') {
		return ""
	}
	return strings.TrimSpace(tail[s.pos:])
}

// parseOffset reads the #X sub-grammar `(x ?= ?<int>)?,? ?(y ?= ?<int>)?`.
// Components that do not match are left unset.
func parseOffset(rest string, off *Offset) {
	s := &scanner{s: rest}
	if n, ok := s.assign('x', true); ok {
		off.X, off.HasX = n, true
	}
	s.lit(',')
	s.lit(' ')
	if n, ok := s.assign('y', true); ok {
		off.Y, off.HasY = n, true
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
