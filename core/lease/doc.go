// Package lease keeps two collectors that share a database from running a
// cycle at the same time.
//
// RedisLease stores a random token under a fixed key with SET NX and a TTL,
// and releases it with a compare-and-delete script so that a holder never
// frees a lease taken over after its own expired. LocalLease is the
// in-process fallback used when no Redis address is configured.
package lease
