package request

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds all live disbursement requests in memory.
//
// Mutations are serialized behind a single mutex; reads take the same lock in
// shared mode so they never observe a half-applied merge. Records leave the
// store only by value.
type Store struct {
	mu      sync.RWMutex
	items   map[string]record
	nextSeq uint64

	idGenerator func() string
	now         func() time.Time
}

type record struct {
	Request
	seq uint64 // insertion order, breaks SubmittedAt ties
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		items:       make(map[string]record),
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// WithIDGenerator overrides id generation, for tests.
func (s *Store) WithIDGenerator(gen func() string) *Store {
	s.idGenerator = gen
	return s
}

// WithClock overrides the timestamp source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// CreateParams are the caller-supplied fields for a new request.
type CreateParams struct {
	BorrowerName string
	LoanAmount   float64
}

// Create validates the params, assigns id/status/submission time, and inserts
// the new record. Returns a *ValidationError when a field is out of range.
func (s *Store) Create(params CreateParams) (Request, error) {
	verr := &ValidationError{}
	if !validBorrowerName(params.BorrowerName) {
		verr.add("borrowerName", msgBorrowerName)
	}
	if !validLoanAmount(params.LoanAmount) {
		verr.add("loanAmount", msgLoanAmount)
	}
	if err := verr.orNil(); err != nil {
		return Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := Request{
		ID:           s.idGenerator(),
		BorrowerName: strings.TrimSpace(params.BorrowerName),
		LoanAmount:   params.LoanAmount,
		Status:       StatusPending,
		SubmittedAt:  s.now().UTC(),
	}
	s.nextSeq++
	s.items[req.ID] = record{Request: req, seq: s.nextSeq}
	return req, nil
}

// GetByID fetches a request by identifier.
func (s *Store) GetByID(id string) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return rec.Request, nil
}

// ListFilter narrows List results. The zero value matches everything.
type ListFilter struct {
	Status Status
}

// List returns all requests, optionally filtered by exact status, ordered by
// SubmittedAt descending with insertion order breaking ties.
func (s *Store) List(filter ListFilter) []Request {
	s.mu.RLock()
	records := make([]record, 0, len(s.items))
	for _, rec := range s.items {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].SubmittedAt.Equal(records[j].SubmittedAt) {
			return records[i].SubmittedAt.After(records[j].SubmittedAt)
		}
		return records[i].seq < records[j].seq
	})

	out := make([]Request, len(records))
	for i, rec := range records {
		out[i] = rec.Request
	}
	return out
}

// UpdateParams carries the fields to merge into an existing request. Nil
// pointers leave the current value untouched.
type UpdateParams struct {
	BorrowerName *string
	LoanAmount   *float64
	Status       *Status
}

// UpdateResult bundles the post-update record with whether the status value
// genuinely changed. The caller owns the decision to notify; the store only
// reports the fact.
type UpdateResult struct {
	Request       Request
	StatusChanged bool
}

// Update merges the supplied fields into the record, re-validating each
// supplied field under the same rules as Create. Returns ErrNotFound for an
// unknown id and *ValidationError for an out-of-range field. A status update
// to the current value is accepted and reported as StatusChanged=false.
func (s *Store) Update(id string, params UpdateParams) (UpdateResult, error) {
	verr := &ValidationError{}
	if params.BorrowerName != nil && !validBorrowerName(*params.BorrowerName) {
		verr.add("borrowerName", msgBorrowerName)
	}
	if params.LoanAmount != nil && !validLoanAmount(*params.LoanAmount) {
		verr.add("loanAmount", msgLoanAmount)
	}
	if params.Status != nil {
		if _, ok := statusSet[*params.Status]; !ok {
			verr.add("status", msgInvalidStatus)
		}
	}
	if err := verr.orNil(); err != nil {
		return UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[id]
	if !ok {
		return UpdateResult{}, ErrNotFound
	}

	statusChanged := false
	if params.BorrowerName != nil {
		rec.BorrowerName = strings.TrimSpace(*params.BorrowerName)
	}
	if params.LoanAmount != nil {
		rec.LoanAmount = *params.LoanAmount
	}
	if params.Status != nil && *params.Status != rec.Status {
		rec.Status = *params.Status
		statusChanged = true
	}
	s.items[id] = rec

	return UpdateResult{Request: rec.Request, StatusChanged: statusChanged}, nil
}

// Delete removes the record if present and reports whether a removal occurred.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// StatusCounts aggregates live records per observed status. Statuses with no
// records are absent from the result.
func (s *Store) StatusCounts() map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Status]int)
	for _, rec := range s.items {
		counts[rec.Status]++
	}
	return counts
}

// TotalAmountByStatus sums loan amounts per observed status.
func (s *Store) TotalAmountByStatus() map[Status]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[Status]float64)
	for _, rec := range s.items {
		totals[rec.Status] += rec.LoanAmount
	}
	return totals
}

// TotalAmount sums all live loan amounts.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, rec := range s.items {
		total += rec.LoanAmount
	}
	return total
}
