// Command cargodoc renders CargoBloc documents from files: client ledgers,
// House BL manifests and payment receipts.
//
// # Installation
//
//	go install github.com/cargobloc/cargodoc/cmd/cargodoc@latest
//
// # Configuration
//
// Asset locations, layouts and logging are read from CARGODOC_* environment
// variables, for example:
//
//	CARGODOC_ASSET_DIR=static
//	CARGODOC_TEMPLATE=HOUSE_BL_TEMPLATE.pdf
//	CARGODOC_LOG_FORMAT=json
//
// # Commands
//
//   - ledger: render a client summary from a CSV of BL rows
//   - manifest: overlay one manifest record on the House BL template
//   - manifest batch: render a list of manifest records concurrently
//   - receipt: render a payment receipt
//   - layout: print the effective manifest placement table
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cargodoc: %v\n", err)
		os.Exit(1)
	}
}
