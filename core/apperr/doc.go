// Package apperr defines the error taxonomy shared by the sync engine, the event
// intake pipeline and the HTTP handlers.
//
// # Kinds
//
//   - ValidationError: missing or malformed caller input. Maps to 400.
//   - UpstreamError: a non-2xx answer or transport failure from TM. Retryable.
//   - PersistenceError: a store operation failed. Retryable.
//   - ErrNotFound: the requested record does not exist in the store.
//
// Malformed timestamps and identifiers coming from TM are not errors at all: they
// degrade to null values (see core/normalize).
//
// # Usage
//
//	if err := intake.RecordEvent(ctx, payload); err != nil {
//	    var verr *apperr.ValidationError
//	    if errors.As(err, &verr) {
//	        return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
//	    }
//	}
package apperr
