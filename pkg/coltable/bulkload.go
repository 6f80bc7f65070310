package coltable

import (
	"fmt"
	"sync"

	"github.com/oisee/colscan/pkg/colerr"
)

// BulkAppend appends a batch to several columns from a pool of up to 16
// goroutines, each column's codes handled whole by a single goroutine —
// never split, so a column's rows keep their order. AppendToColumn holds
// the table's lock for its whole duration, so the appends themselves run
// one at a time. batch maps a column name to its codes for this batch;
// every slice must have the same length.
// Modeled on the teacher's WorkerPool: a fixed pool of goroutines draining
// a work channel, errors collected rather than logged mid-flight.
func (t *Table) BulkAppend(batch map[string][]uint64) error {
	if len(batch) == 0 {
		return nil
	}
	var rows = -1
	for name, codes := range batch {
		if rows == -1 {
			rows = len(codes)
		} else if len(codes) != rows {
			return colerr.LenMismatch("Table.BulkAppend", fmt.Sprintf("column %q has %d codes, want %d", name, len(codes), rows))
		}
	}

	type job struct {
		name  string
		codes []uint64
	}
	jobs := make(chan job, len(batch))
	for name, codes := range batch {
		jobs <- job{name: name, codes: codes}
	}
	close(jobs)

	errs := make([]error, 0, len(batch))
	var mu sync.Mutex
	var wg sync.WaitGroup
	workers := len(batch)
	if workers > 16 {
		workers = 16
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := t.AppendToColumn(j.name, j.codes); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("column %q: %w", j.name, err))
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
