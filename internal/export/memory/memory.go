// Package memory keeps appended digest rows in process, for tests and
// for running without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"finsight/internal/core"
	"finsight/internal/export"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.MonthlyDigest
}

var _ export.DigestWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// AppendDigest stores the digest and returns a synthetic row reference.
func (w *Writer) AppendDigest(_ context.Context, d core.MonthlyDigest) (string, error) {
	if err := d.Month.Validate(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, d)
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []core.MonthlyDigest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]core.MonthlyDigest(nil), w.rows...)
}
