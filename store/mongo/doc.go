// Package mongo stores identities and catalog records in MongoDB using the
// v2 driver. Documents use string ids so they interchange with the other
// backends; [Store.EnsureIndexes] creates the unique email and layout type
// indexes the conflict checks rely on.
package mongo
