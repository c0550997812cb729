package api

import (
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

// RequestService exposes disbursement request operations returning API DTOs.
type RequestService struct {
	store      *request.Store
	thresholds tier.Thresholds
}

// NewRequestService constructs a RequestService around the provided store.
func NewRequestService(store *request.Store, thresholds tier.Thresholds) *RequestService {
	if store == nil {
		return nil
	}
	return &RequestService{store: store, thresholds: thresholds}
}

// List returns requests newest first, optionally filtered by status. An
// unknown status value is a validation error, not an empty result.
func (s *RequestService) List(statusFilter string) ([]DisbursementRequest, error) {
	var filter request.ListFilter
	if statusFilter != "" {
		status, ok := request.ParseStatus(statusFilter)
		if !ok {
			return nil, request.InvalidStatusError("status")
		}
		filter.Status = status
	}
	return FromRequests(s.store.List(filter), s.thresholds), nil
}

// Get fetches a single request by id.
func (s *RequestService) Get(id string) (DisbursementRequest, error) {
	req, err := s.store.GetByID(id)
	if err != nil {
		return DisbursementRequest{}, err
	}
	return FromRequest(req, s.thresholds), nil
}

// Create validates and stores a new request. The stored record is returned
// alongside its DTO so callers can hand it to the notification dispatcher.
func (s *RequestService) Create(params CreateDisbursementRequest) (DisbursementRequest, request.Request, error) {
	req, err := s.store.Create(request.CreateParams{
		BorrowerName: params.BorrowerName,
		LoanAmount:   params.LoanAmount,
	})
	if err != nil {
		return DisbursementRequest{}, request.Request{}, err
	}
	return FromRequest(req, s.thresholds), req, nil
}

// Update applies a partial update. The boolean reports whether the status
// actually changed, which gates the status notification.
func (s *RequestService) Update(id string, params UpdateDisbursementRequest) (DisbursementRequest, request.Request, bool, error) {
	updateParams := request.UpdateParams{
		BorrowerName: params.BorrowerName,
		LoanAmount:   params.LoanAmount,
	}
	if params.Status != nil {
		status, ok := request.ParseStatus(*params.Status)
		if !ok {
			// Pass the raw value through so the store reports it.
			status = request.Status(*params.Status)
		}
		updateParams.Status = &status
	}

	result, err := s.store.Update(id, updateParams)
	if err != nil {
		return DisbursementRequest{}, request.Request{}, false, err
	}
	return FromRequest(result.Request, s.thresholds), result.Request, result.StatusChanged, nil
}

// Delete removes a request, reporting whether it existed.
func (s *RequestService) Delete(id string) bool {
	return s.store.Delete(id)
}

// Stats aggregates the current request population.
func (s *RequestService) Stats() StatsOverview {
	counts := s.store.StatusCounts()
	totals := s.store.TotalAmountByStatus()

	overview := StatsOverview{
		TotalRequests:        s.store.Len(),
		StatusCounts:         make(map[string]int, len(counts)),
		TotalAmountsByStatus: make(map[string]float64, len(totals)),
		TotalAmount:          s.store.TotalAmount(),
	}
	for status, count := range counts {
		overview.StatusCounts[string(status)] = count
	}
	for status, total := range totals {
		overview.TotalAmountsByStatus[string(status)] = total
	}
	return overview
}
