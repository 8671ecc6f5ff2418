// Package parser provides streaming table readers that emit pooled
// positional rows aligned to a caller-requested column order.
package parser

import "sync"

// Row is a pooled container holding one positional input row.
//
// Ownership contract:
//   - Exactly one goroutine owns a Row at a time.
//   - A Row may be handed downstream via channels (ownership transfer).
//   - The final consumer must call Free() after it is fully done with the
//     Row and anything referencing r.V.
//
// On cancellation paths use Drop() instead of Free(): a canceled drain can
// otherwise race with upstream reuse of the same pooled Row.
type Row struct {
	V    []any
	Line int // 1-based logical record number, if known
}

var rowPool sync.Pool

// GetRow returns a pooled Row with length colCount, all elements zeroed.
func GetRow(colCount int) *Row {
	if v := rowPool.Get(); v != nil {
		r := v.(*Row)
		if cap(r.V) < colCount {
			r.V = make([]any, colCount)
		}
		r.V = r.V[:colCount]
		for i := range r.V {
			r.V[i] = nil
		}
		r.Line = 0
		return r
	}
	return &Row{V: make([]any, colCount)}
}

// Free returns the Row to the pool. Call only when no other goroutine can
// still observe r or r.V.
func (r *Row) Free() {
	rowPool.Put(r)
}

// Drop discards the Row without re-pooling it.
func (r *Row) Drop() {
	r.V = nil
	r.Line = 0
}

// HasEdgeSpace reports whether s starts or ends with ASCII whitespace,
// letting hot paths skip strings.TrimSpace for the common clean case.
func HasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	if isSpace(s[0]) {
		return true
	}
	return isSpace(s[len(s)-1])
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
