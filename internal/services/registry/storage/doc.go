// Package storage defines persistence contracts for the origin registry.
package storage
