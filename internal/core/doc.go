// Package core provides the pricing console's business operations.
//
// [Service] sits between the transport layers (HTTP handlers and the
// pricectl CLI) and the catalog store. It owns everything around the pure
// exchange logic in package pricing:
//
//   - Export: snapshot (through the optional cache), flatten, render as CSV
//     or XLSX, archive and audit.
//   - Import: file checks, a bounded number of concurrent runs
//     ([ImportLimiter]), encoding repair, parse, reconcile, then cache
//     invalidation, change events, archive and audit.
//   - Currency conversion over the stored rates.
//
// Every backend except the catalog store is optional and is enabled with an
// [Option]. A failing optional backend is logged and never fails the
// operation it decorates.
//
// # Error Handling
//
// Sentinel errors ([ErrNotCSV], [ErrTooManyImports], ...) are returned for
// failures that prevent an operation. [MapError] turns any error into a
// [UserMessage] with a support code; see error_messages.go for the table.
// Row-level import problems are not errors: they are reported in
// [ImportResult.Errors].
package core
