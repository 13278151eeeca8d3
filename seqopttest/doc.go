// Package seqopttest provides test utilities for code that uses the seqopt
// client.
//
// The central type is [MockServer], an httptest-backed fake of the
// optimization backend. It records every request for verification and serves
// workable defaults for all four lifecycle endpoints: experiment creation
// returns a fresh ID, next_trial hands out incrementing trial IDs,
// complete_trial acknowledges, and pareto_front serves whatever points the
// test configured.
//
//	ms := seqopttest.NewMockServer()
//	defer ms.Close()
//
//	client, err := ms.Client()
//	if err != nil {
//	    t.Fatal(err)
//	}
//
//	session := client.NewSession()
//	// ... exercise the lifecycle ...
//
//	if ms.RequestCount() != 3 {
//	    t.Errorf("expected 3 backend calls, got %d", ms.RequestCount())
//	}
//
// Responses can be scripted per-test with [MockServer.SetResponseFunc] or
// forced to fail with [MockServer.FailWith].
package seqopttest
