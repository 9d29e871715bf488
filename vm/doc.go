// Package vm holds the bytecode program of a contract schema: content
// addressed libraries, the entry point of each validation hook, and
// their binary wire form. Execution itself is left to an executor
// supplied by the caller.
package vm
