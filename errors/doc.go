// Package errors provides the error types used across asynctime.
//
// Recoverable outcomes (a deadline firing before the producer it guards) are
// returned as *AppError values with ErrCodeTimeout. Caller defects, such as
// polling a producer that already completed, are raised with panic using an
// *AppError carrying ErrCodePolledAfterCompletion so a recover site can tell
// them apart from unrelated panics:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        if err, ok := r.(error); ok && errors.IsCode(err, errors.ErrCodePolledAfterCompletion) {
//	            // caller bug
//	        }
//	    }
//	}()
package errors
