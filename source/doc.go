// Package source loads the country reference dataset.
//
// A Loader performs a single "get all records" operation. The HTTPLoader
// issues one unauthenticated GET against a JSON resource; the FileLoader
// reads the same payload from disk. The payload is a JSON array of objects
// with an integer "id", a string "name" and an optional string "capital";
// any other fields are ignored.
//
// Every failure (transport error, non-OK status, unreadable body, or a
// payload that is not the expected array shape) is reported as
// ErrDataLoadFailure. There are no retries.
package source
