// Package diag defines the diagnostic model shared by sniffs, the driver and
// the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//   - Message: final, interpolated text; sniffs never leave placeholders.
//   - Primary span: the anchor token of the finding.
//   - Notes: optional secondary spans/messages.
//   - Fixes: optional Fix records describing the correction as text edits.
//
// # Reporting
//
// Producers talk to a Reporter and never see storage. Report never fails:
// BagReporter drops entries past the bag limit, DedupReporter suppresses
// repeats, MultiReporter fans out and SeverityReporter applies configured
// severity overrides. ReportBuilder is the convenient way to attach fixes
// before emitting exactly once.
//
// # Scope
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt,
// application of fixes in internal/fix.
package diag
