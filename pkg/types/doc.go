// Package types defines the Store interface, the task and notebook record
// types, the collection schema, and the standard errors for the haldai local
// record store.
//
// A Store persists JSON documents in two collections, tasks and notebooks,
// each keyed by a string id and carrying non-unique secondary indexes. Owner
// scoping uses the user_email field, stamped on save from an injected Session.
package types
