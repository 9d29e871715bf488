// Package validation checks the state carried by contract operations
// against their schema.
//
// Invalid input never produces an error: every problem is recorded as a
// Failure in a Status, and notes that do not invalidate the operation
// are recorded as Info. ValidateState covers a single assignment;
// Validator covers whole operations, including script hooks.
package validation
