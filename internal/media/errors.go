package media

import "fmt"

// FetchKind classifies acquisition failures so the caller can tell a bad
// reference from a transient network fault.
type FetchKind int

const (
	FetchInvalidReference FetchKind = iota
	FetchNotFound
	FetchForbidden
	FetchNetwork
	FetchUnsupported
)

func (k FetchKind) String() string {
	switch k {
	case FetchInvalidReference:
		return "invalid reference"
	case FetchNotFound:
		return "not found"
	case FetchForbidden:
		return "forbidden"
	case FetchNetwork:
		return "network error"
	case FetchUnsupported:
		return "unsupported source"
	default:
		return "unknown"
	}
}

// FetchError is a classified acquisition failure.
type FetchError struct {
	Kind      FetchKind
	Reference string
	Err       error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Reference, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Reference, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// OversizeError reports an extracted chunk that still exceeds the upload
// ceiling. The orchestrator treats it as a re-plannable condition.
type OversizeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("extracted chunk %s is %d bytes, over the %d byte ceiling", e.Path, e.Size, e.Limit)
}
