package train

import (
	"runtime"
	"sync"
)

// pairTask is one path pair queued for feature extraction.
type pairTask struct {
	Seq  int
	Pair Pair
}

// pairResult holds one pair's labeled sub-table.
type pairResult struct {
	Seq   int
	Table *Table
	Err   error
}

// runPairs extracts pair sub-tables using a pool of workers. Pairs share no
// mutable state, so each worker is a pure function from paths to a table.
// Results arrive in completion order; use orderedCollect to consume them in
// sequence order. If workers is 0, runtime.NumCPU() is used.
func runPairs(tasks <-chan pairTask, workers int) <-chan pairResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan pairResult, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for task := range tasks {
				table, err := buildPairTable(task.Pair)
				results <- pairResult{Seq: task.Seq, Table: table, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order, buffering
// out-of-order results until the next expected sequence number arrives.
// Blocks until the results channel is closed.
func orderedCollect(results <-chan pairResult, fn func(pairResult) error) error {
	pending := make(map[int]pairResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// BuildTrainingSet extracts every pair concurrently and concatenates the
// pair sub-tables in input order, so repeated runs over the same path lists
// produce the same table.
func BuildTrainingSet(pairs []Pair, workers int) (*Table, error) {
	tasks := make(chan pairTask, len(pairs))
	for i, p := range pairs {
		tasks <- pairTask{Seq: i, Pair: p}
	}
	close(tasks)

	results := runPairs(tasks, workers)

	full := &Table{}
	err := orderedCollect(results, func(r pairResult) error {
		if r.Err != nil {
			return r.Err
		}
		full.Append(r.Table)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return full, nil
}
