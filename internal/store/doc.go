// Package store holds the in-memory collections the feed client maintains
// from streamed updates.
//
// Each collection is ordered newest-first, unique by a domain key, and
// capped: an update for a known key merges into the existing record without
// moving it, a new key is prepended, and anything past the cap falls off the
// tail. Applying the same update sequence always produces the same
// collection, independent of arrival timing.
package store
