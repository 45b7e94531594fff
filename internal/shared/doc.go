// Package shared holds helpers used across packages that belong to no single
// layer. Its testutil subpackage provides log capture and dataset fixtures
// for package tests:
//
//	func TestSomething(t *testing.T) {
//	    files := testutil.WriteDatasets(t, testutil.SampleOrders, testutil.SampleProducts)
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "skipping malformed row")
//	}
package shared
