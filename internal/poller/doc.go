// Package poller provides the per-widget fetch/poll/retry lifecycle for iZone.
//
// This package is internal to iZone. The main components are:
//
//   - [Client]: JSON HTTP client wrapper that normalizes failures into
//     [NetworkError], [HTTPError] and [ParseError]
//   - [Controller]: one widget's state machine (Idle, Loading, Success,
//     Failure) with an immediate fetch, a fixed-interval timer, manual
//     refetch and safe teardown
//   - [Snapshot]: the state a controller reports to its observer
//
// Users of the izone library should not need to interact with this package
// directly. Controllers are created by the main izone package.
package poller
