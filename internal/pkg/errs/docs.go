// Package errs provides standardized error types for the ride-hail dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the full error taxonomy of the dispatch engine:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: validation
//     failures rejected before any state change
//   - ObjectNotFoundError: unknown order or driver identifiers
//   - ConflictError: duplicate active order, concurrent update of the same order
//   - ForbiddenError: role or ownership checks that failed
//   - PreconditionFailedError: physical preconditions that do not hold, such as a
//     driver outside the pickup-arrival radius
//   - VersionIsInvalidError: optimistic-lock version problems
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, enabling errors.Is classification
//
// The HTTP adapter relies on the sentinels to map engine failures onto protocol
// status codes; everything below the adapter deals only in these types.
package errs
