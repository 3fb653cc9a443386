// Package forumdbtest provides test doubles and integration helpers for the
// forumdb package.
//
// Three levels of fidelity are available:
//
//   - MockClient: an expectation-based mock where each DynamoDB operation is
//     a settable function field. Operations without an expectation fail the
//     test.
//   - FakeClient: an in-memory fake that stores forum items, simulates table
//     lifecycle, scan pagination and simple update expressions.
//   - LocalDynamoDB: helpers for running tests against DynamoDB Local, with
//     table waiters and automatic skipping when no local instance is running.
package forumdbtest
