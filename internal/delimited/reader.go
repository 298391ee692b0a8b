// Package delimited reads header-driven delimited text with a configurable
// field separator and quote character.
//
// Quoting follows the common convention: a field that starts with the quote
// character may contain the separator and line breaks, and a doubled quote
// character inside it stands for one literal quote. A quote character in the
// middle of an unquoted field is kept as text.
package delimited

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const bom = '\uFEFF'

var (
	// ErrUnterminatedQuote is returned when input ends inside a quoted field.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	// ErrInvalidDelim is returned when the separator or quote character is unusable.
	ErrInvalidDelim = errors.New("invalid field separator or quote character")
)

// ParseError reports where in the input a record could not be parsed.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Reader reads records from delimited text.
type Reader struct {
	// Comma is the field separator. Default is ','.
	Comma rune
	// Quote is the quote character. Default is '"'.
	Quote rune

	r          *bufio.Reader
	field      strings.Builder
	line       int
	col        int
	recordLine int
	started    bool
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		Comma: ',',
		Quote: '"',
		r:     bufio.NewReader(r),
		line:  1,
	}
}

// Line returns the 1-based line on which the last record read started.
func (r *Reader) Line() int {
	return r.recordLine
}

// Read returns the next record. Blank lines are skipped.
// It returns io.EOF when no records remain.
func (r *Reader) Read() ([]string, error) {
	if !validDelim(r.Comma) || !validDelim(r.Quote) || r.Comma == r.Quote {
		return nil, ErrInvalidDelim
	}
	if !r.started {
		r.started = true
		if err := r.skipBOM(); err != nil {
			return nil, err
		}
	}

	for {
		record, err := r.readRecord()
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}
}

// ReadAll reads all remaining records.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func validDelim(c rune) bool {
	return c != 0 && c != '\r' && c != '\n' && c != bom && c != utf8.RuneError && utf8.ValidRune(c)
}

func (r *Reader) skipBOM() error {
	ch, _, err := r.r.ReadRune()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if ch != bom {
		return r.r.UnreadRune()
	}
	return nil
}

func (r *Reader) next() (rune, error) {
	ch, _, err := r.r.ReadRune()
	if err != nil {
		return 0, err
	}
	r.col++
	return ch, nil
}

func (r *Reader) back() {
	_ = r.r.UnreadRune()
	r.col--
}

// endLine consumes the rest of a line break starting with ch.
func (r *Reader) endLine(ch rune) error {
	if ch == '\r' {
		next, err := r.next()
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			return err
		case next != '\n':
			r.back()
		}
	}
	r.line++
	r.col = 0
	return nil
}

// readRecord returns nil, nil for a blank line.
func (r *Reader) readRecord() ([]string, error) {
	r.recordLine = r.line

	ch, err := r.next()
	if err != nil {
		return nil, err
	}
	if ch == '\n' || ch == '\r' {
		return nil, r.endLine(ch)
	}
	r.back()

	var record []string
	for {
		field, last, err := r.readField()
		if err != nil {
			return nil, err
		}
		record = append(record, field)
		if last {
			return record, nil
		}
	}
}

// readField reads one field and reports whether it ended the record.
func (r *Reader) readField() (string, bool, error) {
	r.field.Reset()

	ch, err := r.next()
	if errors.Is(err, io.EOF) {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	if ch == r.Quote {
		return r.readQuoted()
	}
	r.back()
	return r.readUnquoted()
}

func (r *Reader) readUnquoted() (string, bool, error) {
	for {
		ch, err := r.next()
		if errors.Is(err, io.EOF) {
			return r.field.String(), true, nil
		}
		if err != nil {
			return "", false, err
		}
		switch ch {
		case r.Comma:
			return r.field.String(), false, nil
		case '\n', '\r':
			if err := r.endLine(ch); err != nil {
				return "", false, err
			}
			return r.field.String(), true, nil
		}
		r.field.WriteRune(ch)
	}
}

func (r *Reader) readQuoted() (string, bool, error) {
	startLine, startCol := r.line, r.col
	for {
		ch, err := r.next()
		if errors.Is(err, io.EOF) {
			return "", false, &ParseError{Line: startLine, Column: startCol, Err: ErrUnterminatedQuote}
		}
		if err != nil {
			return "", false, err
		}

		switch ch {
		case r.Quote:
			next, err := r.next()
			if errors.Is(err, io.EOF) {
				return r.field.String(), true, nil
			}
			if err != nil {
				return "", false, err
			}
			switch next {
			case r.Quote:
				r.field.WriteRune(r.Quote)
			case r.Comma:
				return r.field.String(), false, nil
			case '\n', '\r':
				if err := r.endLine(next); err != nil {
					return "", false, err
				}
				return r.field.String(), true, nil
			default:
				// text after the closing quote is kept
				r.back()
				return r.readUnquoted()
			}
		case '\n':
			r.field.WriteRune(ch)
			r.line++
			r.col = 0
		default:
			r.field.WriteRune(ch)
		}
	}
}
