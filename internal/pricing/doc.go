// Package pricing implements the bulk price exchange for the catalog.
//
// The package has no I/O dependencies. It converts a catalog snapshot into
// flat price rows, encodes those rows as CSV, parses edited CSV back into
// typed rows, and reconciles the parsed rows against the catalog through a
// [Gateway].
//
// # Export
//
//	rows := pricing.Flatten(catalog)
//	text := pricing.Encode(rows)
//
// Rows are emitted in a fixed order: for each product its base price, then
// every option with a non-zero price delta, and finally every drawer
// interior.
//
// # Import
//
//	parsed := pricing.Parse(text)
//	report, updated := pricing.Reconcile(ctx, parsed.Rows, catalog, gateway)
//
// Parsing is lenient: malformed lines are dropped and non-numeric prices
// become zero. Reconciliation never stops early; every lookup or
// persistence failure becomes one entry in [Report.Errors].
//
// # Currency
//
// [Converter] converts amounts between currencies whose rates are expressed
// against a single base currency.
package pricing
