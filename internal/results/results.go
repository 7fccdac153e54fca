// Package results defines the generic operation result envelope returned by
// application services.
package results

// OperationResult carries either a success payload or a failure payload.
// A failure payload is a domain-level outcome that callers may publish as an
// event; transport and infrastructure errors travel on the error return
// instead.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// NewSuccess wraps a success payload.
func NewSuccess[S any, F any](s *S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: s}
}

// NewFailure wraps a failure payload.
func NewFailure[S any, F any](f *F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: f}
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
