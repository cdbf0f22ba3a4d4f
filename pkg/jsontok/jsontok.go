// Package jsontok flattens one JSON document into a stream of structural
// and value tokens. It reads the input in a single forward pass with no
// backtracking; only the token under construction is buffered, so memory
// use is constant in the size of the document. Scalar values are always
// delivered in their string form: numbers keep their source text, and
// booleans and null their literal names. Coercion is left to the
// consumer.
package jsontok

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies a token in the stream.
type Kind int

const (
	DocumentStart Kind = iota
	ArrayStart
	ObjectStart
	Key
	Value
	ObjectEnd
	ArrayEnd
	DocumentEnd
)

var kindNames = [...]string{
	DocumentStart: "DocumentStart",
	ArrayStart:    "ArrayStart",
	ObjectStart:   "ObjectStart",
	Key:           "Key",
	Value:         "Value",
	ObjectEnd:     "ObjectEnd",
	ArrayEnd:      "ArrayEnd",
	DocumentEnd:   "DocumentEnd",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one event from the stream. Text is set for Key and Value
// tokens and empty otherwise.
type Token struct {
	Kind Kind
	Text string
}

// MaxDepth bounds container nesting. Feeds this package consumes are
// shallow arrays of flat objects; anything deeper is rejected rather
// than growing the container stack without limit.
const MaxDepth = 20

var ErrTooDeep = errors.New("jsontok: document exceeds max nesting depth")

// frame tracks one open container. keyNext is meaningful only for
// objects: true when the next string token is a member name.
type frame struct {
	object  bool
	keyNext bool
}

// Scanner produces the token stream for a single document. A Scanner is
// good for exactly one session; construct a new one for each stream. It
// is not safe for concurrent use.
type Scanner struct {
	dec     *json.Decoder
	stack   []frame
	started bool // DocumentStart emitted
	ended   bool // top-level value fully consumed
	closed  bool // DocumentEnd emitted
	err     error
}

// NewScanner begins a parse session over r.
func NewScanner(r io.Reader) *Scanner {
	dec := json.NewDecoder(r)
	// Numbers stay in their source form so Value tokens can carry them
	// as text.
	dec.UseNumber()
	return &Scanner{dec: dec}
}

// Next returns the next token. After the final DocumentEnd it returns
// io.EOF. Any other error means the session died mid-document: tokens
// already returned remain trustworthy, but no more will come.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	if !s.started {
		s.started = true
		return Token{Kind: DocumentStart}, nil
	}
	if s.ended {
		if !s.closed {
			s.closed = true
			return Token{Kind: DocumentEnd}, nil
		}
		s.err = io.EOF
		return Token{}, s.err
	}

	raw, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			// The underlying stream ran out before the document closed.
			err = io.ErrUnexpectedEOF
		}
		s.err = fmt.Errorf("jsontok: %w", err)
		return Token{}, s.err
	}

	switch t := raw.(type) {
	case json.Delim:
		switch t {
		case '{', '[':
			if len(s.stack) == MaxDepth {
				s.err = ErrTooDeep
				return Token{}, s.err
			}
			obj := t == '{'
			s.stack = append(s.stack, frame{object: obj, keyNext: obj})
			if obj {
				return Token{Kind: ObjectStart}, nil
			}
			return Token{Kind: ArrayStart}, nil
		default: // '}' or ']'
			kind := ObjectEnd
			if t == ']' {
				kind = ArrayEnd
			}
			s.pop()
			return Token{Kind: kind}, nil
		}
	case string:
		if top := s.top(); top != nil && top.object && top.keyNext {
			top.keyNext = false
			return Token{Kind: Key, Text: t}, nil
		}
		return s.value(t), nil
	case json.Number:
		return s.value(t.String()), nil
	case bool:
		if t {
			return s.value("true"), nil
		}
		return s.value("false"), nil
	case nil:
		return s.value("null"), nil
	}
	s.err = fmt.Errorf("jsontok: unexpected token %v", raw)
	return Token{}, s.err
}

// value wraps a scalar and advances the enclosing object, if any, back
// to expecting a key.
func (s *Scanner) value(text string) Token {
	if top := s.top(); top != nil && top.object {
		top.keyNext = true
	} else if top == nil {
		// Scalar at top level is a complete document.
		s.ended = true
	}
	return Token{Kind: Value, Text: text}
}

// pop closes the innermost container. The decoder guarantees balanced
// delimiters, so popping cannot underflow on well-formed input.
func (s *Scanner) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	if top := s.top(); top != nil && top.object {
		// The closed container was this object's member value.
		top.keyNext = true
	} else if len(s.stack) == 0 {
		s.ended = true
	}
}

func (s *Scanner) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}
