// Package feed exposes the client-facing surface of the Stellar Insights
// real-time stream.
//
// A feed Client owns a connection.Manager and folds the decoded frame stream
// into local state: the last received envelope, the current connection
// state, and capped collections of corridors, anchors, and payments. The
// presentation layer reads snapshots; it never touches the transport.
package feed
