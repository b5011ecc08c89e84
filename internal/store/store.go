// Package store persists drill sessions as one JSON file per session.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// FileLayout formats a session start time into a file stem.
const FileLayout = "2006-01-02_15-04-05"

const fileExt = ".json"

var (
	// ErrPersist wraps failures to create the results directory or write a session file.
	ErrPersist = errors.New("failed to persist session")
	// ErrCorruptHistory wraps malformed file names or contents in the results directory.
	ErrCorruptHistory = errors.New("corrupt results history")
)

// Store reads and writes session files under a single directory.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir. The directory is created lazily on Save.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("results directory is empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the results directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the session file name for a start time.
func FileName(startedAt time.Time) string {
	return startedAt.Format(FileLayout) + fileExt
}

// Save writes results to <dir>/<YYYY-MM-DD_HH-MM-SS>.json and returns the path.
// An existing file with the same name is replaced.
func (s *Store) Save(startedAt time.Time, results []model.Result) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create results directory: %w", ErrPersist, err)
	}
	if results == nil {
		results = []model.Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode results: %w", ErrPersist, err)
	}
	path := filepath.Join(s.dir, FileName(startedAt))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrPersist, path, err)
	}
	return path, nil
}

// LoadSessions reads every session file, oldest first.
// A missing results directory is an empty history.
func (s *Store) LoadSessions() ([]model.Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}
	sessions := make([]model.Session, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stem, _, _ := strings.Cut(name, ".")
		if stem == "" {
			continue
		}
		startedAt, err := time.ParseInLocation(FileLayout, stem, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: file name %s: %w", ErrCorruptHistory, name, err)
		}
		results, err := readResults(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorruptHistory, name, err)
		}
		sessions = append(sessions, model.Session{StartedAt: startedAt, Results: results})
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions, nil
}

// LoadHistory returns per-session totals keyed by start time, oldest first.
func (s *Store) LoadHistory() ([]model.SessionAggregate, error) {
	sessions, err := s.LoadSessions()
	if err != nil {
		return nil, err
	}
	aggs := make([]model.SessionAggregate, len(sessions))
	for i, session := range sessions {
		aggs[i] = session.Aggregate()
	}
	return aggs, nil
}

// LoadAllTotalTimes returns the total time of every stored session.
func (s *Store) LoadAllTotalTimes() ([]float64, error) {
	aggs, err := s.LoadHistory()
	if err != nil {
		return nil, err
	}
	times := make([]float64, len(aggs))
	for i, agg := range aggs {
		times[i] = agg.TotalTimeSec
	}
	return times, nil
}

type questionRecord struct {
	First     *int             `json:"first"`
	Second    *int             `json:"second"`
	Operation *model.Operation `json:"operation"`
	Expected  *int             `json:"expected"`
}

type resultRecord struct {
	Question   *questionRecord `json:"question"`
	ErrorCount *int            `json:"error_count"`
	TimeSec    *float64        `json:"time_sec"`
}

func readResults(path string) ([]model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []*resultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("expected a list of records")
	}
	results := make([]model.Result, len(records))
	for i, rec := range records {
		res, err := rec.result()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

func (r *resultRecord) result() (model.Result, error) {
	if r == nil {
		return model.Result{}, errors.New("record is null")
	}
	if r.Question == nil {
		return model.Result{}, errors.New("missing question")
	}
	q := r.Question
	if q.First == nil || q.Second == nil || q.Operation == nil || q.Expected == nil {
		return model.Result{}, errors.New("question is missing a field")
	}
	if r.ErrorCount == nil || r.TimeSec == nil {
		return model.Result{}, errors.New("missing error_count or time_sec")
	}
	if *r.ErrorCount < 0 {
		return model.Result{}, fmt.Errorf("negative error_count %d", *r.ErrorCount)
	}
	if *r.TimeSec < 0 {
		return model.Result{}, fmt.Errorf("negative time_sec %g", *r.TimeSec)
	}
	want, err := q.Operation.Apply(*q.First, *q.Second)
	if err != nil {
		return model.Result{}, err
	}
	if want != *q.Expected {
		return model.Result{}, fmt.Errorf("expected %d does not match %d %s %d", *q.Expected, *q.First, *q.Operation, *q.Second)
	}
	return model.Result{
		Question: model.Question{
			First:     *q.First,
			Second:    *q.Second,
			Operation: *q.Operation,
			Expected:  *q.Expected,
		},
		ErrorCount: *r.ErrorCount,
		TimeSec:    *r.TimeSec,
	}, nil
}
