// Package shared holds code used across the CellSense packages that does not
// belong to a single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler, a slog handler that records log output for assertions
//	- WorkbookBytes, which builds in-memory .xlsx uploads with excelize
//	- SampleLedgerRows, a small ledger used across service and handler tests
//
// Example usage:
//
//	func TestUpload(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.WorkbookBytes(t, testutil.SampleLedgerRows())
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
