package request

import "time"

type sampleRequest struct {
	borrowerName string
	loanAmount   float64
	status       Status
	age          time.Duration
}

var sampleRequests = []sampleRequest{
	{"Jane K.", 15_000, StatusPending, 2 * time.Hour},
	{"Michael A.", 75_000, StatusApproved, 24 * time.Hour},
	{"Sarah B.", 8_500, StatusPending, 30 * time.Minute},
	{"David L.", 120_000, StatusRejected, 3 * 24 * time.Hour},
	{"Emma T.", 45_000, StatusApproved, 12 * time.Hour},
	{"Robert M.", 25_000, StatusPending, 4 * time.Hour},
	{"Lisa P.", 7_200, StatusApproved, 6 * time.Hour},
	{"James W.", 95_000, StatusPending, 1 * time.Hour},
}

// SeedSampleData inserts a set of representative requests spanning all tiers
// and statuses. Intended for demo and development environments only.
func (s *Store) SeedSampleData() int {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range sampleRequests {
		req := Request{
			ID:           s.idGenerator(),
			BorrowerName: sample.borrowerName,
			LoanAmount:   sample.loanAmount,
			Status:       sample.status,
			SubmittedAt:  now.Add(-sample.age),
		}
		s.nextSeq++
		s.items[req.ID] = record{Request: req, seq: s.nextSeq}
	}
	return len(sampleRequests)
}
