// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeTimeout,
//	    "active network probe exceeded its bound",
//	    ctx.Err(),
//	    map[string]interface{}{
//	        "target":  target,
//	        "timeout": timeout.String(),
//	    },
//	)
package errors
