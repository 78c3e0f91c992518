// Package document encodes the schema-less attributes of a volunteer record.
//
// Skills, interests, drive history and availability live as JSON text inside
// otherwise relational rows. The encoders in this package turn typed values
// into that text and back. Decoding is tolerant: missing, blank or malformed
// text yields an empty collection (or a nil availability) instead of an error,
// so one corrupt column never makes a record unreadable.
//
// A nil value encodes to a nil *string, which the store persists as NULL.
// An empty, non-nil collection encodes to "[]". Callers use that difference
// to tell "leave the column alone" from "clear it".
package document
