// Package types defines the Book and Snapshot entities, the runtime Config,
// and the sentinel errors shared by the livraria store, backup, transfer,
// and menu packages.
package types
