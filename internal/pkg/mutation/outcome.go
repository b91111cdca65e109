package mutation

import "fmt"

// FailureKind discriminates mutation failures. Local kinds (validation,
// concurrent-mutation) are caught before any network call; the remote
// kinds mirror the gateway's failure classes.
type FailureKind string

const (
	KindValidation FailureKind = "validation"
	KindConcurrent FailureKind = "concurrent-mutation"
	KindClient     FailureKind = "client-error"
	KindServer     FailureKind = "server-error"
	KindNetwork    FailureKind = "network-error"
	KindInternal   FailureKind = "internal-error"
)

// Local reports whether the failure was produced before any request was
// dispatched, meaning no rollback ran because nothing was applied.
func (k FailureKind) Local() bool {
	return k == KindValidation || k == KindConcurrent
}

// Failure describes why a mutation did not take effect remotely.
type Failure struct {
	Kind   FailureKind
	Status int
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
	}
	return string(f.Kind)
}

// Outcome is the discriminated result of a mutation. Exactly one of
// Payload (on success) and Failure is meaningful; callers branch on OK
// rather than catching anything.
type Outcome struct {
	Payload interface{}
	Failure *Failure
}

// OK reports whether the mutation was accepted by the remote.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

func failure(kind FailureKind, detail string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Detail: detail}}
}
