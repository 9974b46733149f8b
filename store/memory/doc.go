// Package memory provides in-process implementations of the identity store
// and the catalog repositories. It backs tests, the minimal example and
// single-node development runs; nothing survives a restart.
package memory
