// Package retry provides exponential backoff retry logic for transient
// Kubernetes API failures.
//
// [Do] retries an operation with configurable attempts, initial delay and
// maximum delay. Callers decide which errors are worth retrying with
// [WithRetryIf]; errors wrapped with [Permanent] are never retried.
package retry
