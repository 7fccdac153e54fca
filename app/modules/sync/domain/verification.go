// Package syncdomain scores verification evidence for synced forecaster
// stats.
package syncdomain

import (
	"fmt"
	"math"
	"time"
)

// CheckStatus is the outcome of one verification check.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
	CheckPending CheckStatus = "pending"
)

// VerificationStatus is the rolled-up status of a stats source.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusPending    VerificationStatus = "pending"
	StatusFailed     VerificationStatus = "failed"
	StatusUnverified VerificationStatus = "unverified"
	StatusExpired    VerificationStatus = "expired"
)

// VerificationCheck is one piece of evidence about a synced stats source.
type VerificationCheck struct {
	ID        string      `json:"id"`
	Status    CheckStatus `json:"status"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
}

// VerificationSummary is the scored rollup of a check set.
type VerificationSummary struct {
	Confidence int                `json:"confidence"`
	Status     VerificationStatus `json:"status"`
}

// InvalidCheckError reports a check whose status is not one of the known
// values.
type InvalidCheckError struct {
	CheckID string
	Status  CheckStatus
}

func (e *InvalidCheckError) Error() string {
	return fmt.Sprintf("invalid verification check %q: unknown status %q", e.CheckID, e.Status)
}

// ScoreVerification rolls a check set up into a confidence and status.
//
// Confidence is the passed fraction on a 0..100 scale, rounded to the
// nearest integer. Any failed check makes the whole summary failed; absent
// failures any pending check makes it pending. An empty set is unverified
// with zero confidence, not an error.
func ScoreVerification(checks []VerificationCheck) (VerificationSummary, error) {
	if len(checks) == 0 {
		return VerificationSummary{Confidence: 0, Status: StatusUnverified}, nil
	}

	var passed, failed, pending int
	for _, check := range checks {
		switch check.Status {
		case CheckPassed:
			passed++
		case CheckFailed:
			failed++
		case CheckPending:
			pending++
		default:
			return VerificationSummary{}, &InvalidCheckError{CheckID: check.ID, Status: check.Status}
		}
	}

	confidence := int(math.Round(100 * float64(passed) / float64(len(checks))))

	status := StatusVerified
	switch {
	case failed > 0:
		status = StatusFailed
	case pending > 0:
		status = StatusPending
	}

	return VerificationSummary{Confidence: confidence, Status: status}, nil
}

// SummarizeAt scores a check set and applies the freshness TTL against the
// given clock reading. A summary whose newest evidence is older than the TTL
// degrades to expired; checks without timestamps never expire. The clock is
// an argument so the rollup stays deterministic.
func SummarizeAt(checks []VerificationCheck, now time.Time, ttl time.Duration) (VerificationSummary, error) {
	summary, err := ScoreVerification(checks)
	if err != nil {
		return VerificationSummary{}, err
	}
	if summary.Status == StatusUnverified || ttl <= 0 {
		return summary, nil
	}

	var newest *time.Time
	for _, check := range checks {
		if check.Timestamp == nil {
			continue
		}
		if newest == nil || check.Timestamp.After(*newest) {
			newest = check.Timestamp
		}
	}
	if newest != nil && now.Sub(*newest) > ttl {
		summary.Status = StatusExpired
	}
	return summary, nil
}
