// Package storage persists the user table and operator record as flat
// JSON documents on the local filesystem.
package storage
