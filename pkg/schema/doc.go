// Package schema is documented in schema.go.
package schema
