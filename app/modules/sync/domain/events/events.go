// Package syncevents defines the topics and payloads of the sync module.
package syncevents

import (
	syncdomain "github.com/calibrank/calibrank/app/modules/sync/domain"
)

// Topics.
const (
	VerificationRequested = "sync.verification.requested"
	VerificationReceived  = "sync.verification.received"
	VerificationScored    = "sync.verification.scored"
	VerificationFailed    = "sync.verification.failed"
)

// VerificationRequestedPayload asks the ingestion side to re-fetch and
// re-verify one source. The poll scheduler emits it on each due run.
type VerificationRequestedPayload struct {
	SourceID string `json:"source_id"`
}

// VerificationReceivedPayload carries fresh check evidence for one
// forecaster's source.
type VerificationReceivedPayload struct {
	ForecasterID string                         `json:"forecaster_id"`
	SourceID     string                         `json:"source_id"`
	Checks       []syncdomain.VerificationCheck `json:"checks"`
}

// VerificationScoredPayload is published once a check set has been rolled up
// and stored.
type VerificationScoredPayload struct {
	ForecasterID string                         `json:"forecaster_id"`
	SourceID     string                         `json:"source_id"`
	Summary      syncdomain.VerificationSummary `json:"summary"`
}

// VerificationFailedPayload is published when a check set cannot be scored.
type VerificationFailedPayload struct {
	ForecasterID string `json:"forecaster_id"`
	SourceID     string `json:"source_id"`
	Reason       string `json:"reason"`
}
