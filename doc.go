// Package seqopt provides a Go client for sequential experiment-optimization
// services that follow the adaptive-experimentation HTTP contract.
//
// A user defines an experiment (search parameters plus one or more objectives),
// repeatedly requests a parameter suggestion (a "trial") from the backend,
// reports the observed objective values, and inspects the resulting
// Pareto-efficient solution set. The suggestion strategy and Pareto computation
// live in the backend; this package owns the client-side lifecycle: schema
// assembly and validation, the single-trial-in-flight protocol, the completed
// trial history, and presentation-ready views of a Pareto front.
//
// # Quick Start
//
// Build a schema, create the experiment, then run trials:
//
//	client, err := seqopt.New(seqopt.WithBaseURL("http://localhost:8000/api"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := seqopt.NewSchemaBuilder()
//	b.SetName("Catalyst Optimization")
//	p := b.AddParameter()
//	b.SetParameterName(p, "Temperature")
//	b.SetBounds(p, 0, 100)
//	o := b.ObjectiveIDs()[0]
//	b.SetObjectiveName(o, "Yield")
//
//	req, err := b.Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session := client.NewSession()
//	if _, err := session.Create(ctx, req); err != nil {
//	    log.Fatal(err)
//	}
//
//	trial, err := session.RequestTrial(ctx)
//	// ... run the experiment with trial.Parameters ...
//	_, err = session.SubmitResult(ctx, map[string]float64{"Yield": 0.82})
//
// # Trial Protocol
//
// At most one proposed trial exists at any time. [Session.RequestTrial] fails
// with [ErrNotReady] while a trial is awaiting its result, and a result is
// accepted only when every declared objective has a value. The completed-trial
// history grows in submission order and is never reordered or truncated.
//
// # Multi-Objective Experiments
//
// Experiments with two or more objectives gain access to the backend's Pareto
// front via [Session.ParetoFront]. The raw points can be shaped for display
// with [ChartSeries] (a 2-D projection onto the first two declared objectives)
// and [ComparisonTable] (one row per solution, one column per objective and
// parameter).
//
// # Errors
//
// Local precondition failures (validation errors, [ErrNotReady],
// [IncompleteResultError]) never reach the network. Backend failures are
// wrapped per operation ([CreationError], [TrialFetchError], [SubmitError],
// [ParetoFetchError]) and carry the backend's message when one was returned.
// Only idempotent reads are retried at the transport level; mutating
// operations are never re-issued automatically. A failed call leaves the
// lifecycle state exactly where it was, so re-invoking the same operation is
// always safe.
//
// # Thread Safety
//
// Client, Session, and TrialController are safe for concurrent use. The
// trial-cycle gate is checked before any network activity starts, so two rapid
// RequestTrial calls can never both produce a proposed trial.
//
// # Subpackages
//
//   - [github.com/seqopt/seqopt-go/seqopttest]: mock backend server and test
//     helpers for unit testing code that uses this client.
package seqopt

// Version is the current SDK version.
// This is used in User-Agent headers and for debugging.
const Version = "1.0.0"
