package jsontok

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// drain collects every token until the stream finishes or dies.
func drain(input string) ([]Token, error) {
	sc := NewScanner(strings.NewReader(input))
	var toks []Token
	for {
		tok, err := sc.Next()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

func TestTokenStream(t *testing.T) {
	table := []struct {
		name  string
		input string
		want  []Token
	}{{
		name:  "array of flat objects",
		input: `[{"EventType":"HighWater","Height":4.2},{"EventType":"LowWater","Height":1.1}]`,
		want: []Token{
			{Kind: DocumentStart},
			{Kind: ArrayStart},
			{Kind: ObjectStart},
			{Kind: Key, Text: "EventType"},
			{Kind: Value, Text: "HighWater"},
			{Kind: Key, Text: "Height"},
			{Kind: Value, Text: "4.2"},
			{Kind: ObjectEnd},
			{Kind: ObjectStart},
			{Kind: Key, Text: "EventType"},
			{Kind: Value, Text: "LowWater"},
			{Kind: Key, Text: "Height"},
			{Kind: Value, Text: "1.1"},
			{Kind: ObjectEnd},
			{Kind: ArrayEnd},
			{Kind: DocumentEnd},
		},
	}, {
		name:  "scalar forms keep source text",
		input: `{"a":"0113","b":1e3,"c":true,"d":null,"e":-0.50}`,
		want: []Token{
			{Kind: DocumentStart},
			{Kind: ObjectStart},
			{Kind: Key, Text: "a"},
			{Kind: Value, Text: "0113"},
			{Kind: Key, Text: "b"},
			{Kind: Value, Text: "1e3"},
			{Kind: Key, Text: "c"},
			{Kind: Value, Text: "true"},
			{Kind: Key, Text: "d"},
			{Kind: Value, Text: "null"},
			{Kind: Key, Text: "e"},
			{Kind: Value, Text: "-0.50"},
			{Kind: ObjectEnd},
			{Kind: DocumentEnd},
		},
	}, {
		name:  "nesting keeps key and value apart",
		input: `{"outer":{"inner":[1,{"deep":"x"}]},"after":2}`,
		want: []Token{
			{Kind: DocumentStart},
			{Kind: ObjectStart},
			{Kind: Key, Text: "outer"},
			{Kind: ObjectStart},
			{Kind: Key, Text: "inner"},
			{Kind: ArrayStart},
			{Kind: Value, Text: "1"},
			{Kind: ObjectStart},
			{Kind: Key, Text: "deep"},
			{Kind: Value, Text: "x"},
			{Kind: ObjectEnd},
			{Kind: ArrayEnd},
			{Kind: ObjectEnd},
			{Kind: Key, Text: "after"},
			{Kind: Value, Text: "2"},
			{Kind: ObjectEnd},
			{Kind: DocumentEnd},
		},
	}, {
		name:  "empty containers",
		input: `[[],{}]`,
		want: []Token{
			{Kind: DocumentStart},
			{Kind: ArrayStart},
			{Kind: ArrayStart},
			{Kind: ArrayEnd},
			{Kind: ObjectStart},
			{Kind: ObjectEnd},
			{Kind: ArrayEnd},
			{Kind: DocumentEnd},
		},
	}, {
		name:  "bare scalar document",
		input: `"alone"`,
		want: []Token{
			{Kind: DocumentStart},
			{Kind: Value, Text: "alone"},
			{Kind: DocumentEnd},
		},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got, err := drain(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("token stream mismatch (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestTruncatedStream(t *testing.T) {
	// Input ends mid-object: everything before the cut still arrives.
	got, err := drain(`[{"EventType":"HighWater","DateTime"`)
	if err == nil {
		t.Fatal("expected an error for a truncated stream")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got error %v, want io.ErrUnexpectedEOF", err)
	}
	want := []Token{
		{Kind: DocumentStart},
		{Kind: ArrayStart},
		{Kind: ObjectStart},
		{Kind: Key, Text: "EventType"},
		{Kind: Value, Text: "HighWater"},
		{Kind: Key, Text: "DateTime"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens before truncation (-want,+got):\n%s", diff)
	}
}

func TestMalformedStream(t *testing.T) {
	got, err := drain(`[}`)
	if err == nil {
		t.Fatal("expected an error for mismatched delimiters")
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want a syntax error", err)
	}
	want := []Token{
		{Kind: DocumentStart},
		{Kind: ArrayStart},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens before failure (-want,+got):\n%s", diff)
	}
}

func TestMaxDepth(t *testing.T) {
	_, err := drain(strings.Repeat("[", MaxDepth+1))
	if !errors.Is(err, ErrTooDeep) {
		t.Errorf("got %v, want ErrTooDeep", err)
	}
}

func TestExhaustedScannerStaysExhausted(t *testing.T) {
	sc := NewScanner(strings.NewReader(`[]`))
	for {
		if _, err := sc.Next(); err != nil {
			break
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := sc.Next(); err != io.EOF {
			t.Errorf("call %d after exhaustion: got %v, want io.EOF", i, err)
		}
	}
}

func TestErrorIsSticky(t *testing.T) {
	sc := NewScanner(strings.NewReader(`[{"a":`))
	var first error
	for {
		_, err := sc.Next()
		if err != nil {
			first = err
			break
		}
	}
	if _, err := sc.Next(); err != first {
		t.Errorf("second error %v differs from first %v", err, first)
	}
}
