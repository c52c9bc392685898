package domain

// EnsureResult is the normalized outcome reported back to the caller.
// Dash is nil when the desired state is absent. ConfigDrift carries the
// diff between the supplied config and the existing resource's config when
// the resource already existed; the service has no update operation, so
// drift is reported rather than reconciled.
type EnsureResult struct {
	Changed     bool
	State       DesiredState
	Dash        *Dash
	ConfigDrift string
	CheckMode   bool
}
