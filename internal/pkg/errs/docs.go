// Package errs provides the error kinds shared by the order lifecycle service.
//
// Every kind is a struct type paired with a sentinel returned from Unwrap, so
// callers classify failures with errors.Is and inspect details with errors.As:
//   - ObjectNotFoundError (ErrObjectNotFound): a referenced object does not exist
//   - ObjectAlreadyExistsError (ErrObjectAlreadyExists): a unique value collides
//   - ValueIsInvalidError, ValueIsRequiredError, ValueIsOutOfRangeError: bad input
//   - TransitionIsInvalidError (ErrTransitionIsInvalid): a rejected state change
//   - LimitExceededError (ErrLimitExceeded): a capacity ceiling was reached
//
// Adapters translate these kinds into transport codes; the core never inspects
// driver-specific errors.
package errs
