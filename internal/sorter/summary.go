package sorter

import "time"

// Summary is the outcome of one Run.
type Summary struct {
	RunID  string
	Source string
	Target string

	// Results holds one entry per worker, ordered by source path.
	Results []Result
	Skipped []string
	Ignored []string

	Directories DirStats
	Duration    time.Duration
}

// Copied returns the number of files copied successfully.
func (s *Summary) Copied() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusCopied {
			n++
		}
	}
	return n
}

// Failed returns the results of every worker that did not copy its file.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Status != StatusCopied {
			failed = append(failed, r)
		}
	}
	return failed
}

// Bytes returns the total bytes written by successful copies.
func (s *Summary) Bytes() int64 {
	var total int64
	for _, r := range s.Results {
		if r.Status == StatusCopied {
			total += r.Bytes
		}
	}
	return total
}
