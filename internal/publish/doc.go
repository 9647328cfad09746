// Package publish hands the stack outputs to consumers: a JSON document on
// stdout or disk, or an object in an S3-compatible bucket.
package publish
