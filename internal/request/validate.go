package request

import "strings"

const (
	minBorrowerNameLen = 2
	maxBorrowerNameLen = 100
	maxLoanAmount      = 10_000_000
)

func validBorrowerName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return len(trimmed) >= minBorrowerNameLen && len(trimmed) <= maxBorrowerNameLen
}

func validLoanAmount(amount float64) bool {
	return amount > 0 && amount <= maxLoanAmount
}
