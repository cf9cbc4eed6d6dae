// Package model defines the entity records carried on the Stellar Insights
// real-time feed.
//
// All types mirror the backend wire shapes. JSON field names follow the
// server's snake_case convention; amounts and timestamps stay strings as
// received so records can round-trip without precision loss.
package model
