// Package database provides the SQLite crawl journal.
//
// Every crawl is stored as a run, identified by a UUID, and every URL the
// crawl dispatched is stored as a fetch row with its status, the SHA-256 of
// its body, the number of links found and the error, if any. The history
// command reads it back. The journal is an audit log: a crawl never reads
// it to skip work.
//
// Design decision: modernc.org/sqlite is used because it is CGO-free and
// keeps the journal in a single file under the XDG data directory. WAL mode
// lets history be read while a crawl is writing.
package database
