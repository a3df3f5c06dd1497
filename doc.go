// Package cargodoc renders shipping and billing records into PDF documents:
// paginated ledger reports with running totals, House BL manifests overlaid
// on a template PDF, and payment receipts.
//
// The root package holds the records, page geometry, error kinds and the
// bottom-left drawing canvas shared by the subpackages:
//
//   - wrap: breaks text into lines under a width limit
//   - compositor: letterhead, header and footer of ledger pages
//   - table: the paginated ledger table
//   - overlay: field overlays merged onto template pages
//   - receipt: single-page receipts
//   - assemble: the entry points that wire the above together
//
// Rendering is synchronous and holds no state between calls; concurrent
// renders are safe as long as each writes to its own output.
package cargodoc
