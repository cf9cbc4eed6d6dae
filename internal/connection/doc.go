// Package connection implements the transport layer of the Stellar Insights
// feed client.
//
// The Manager owns one logical connection to the backend:
//   - a single physical WebSocket at a time, reconnected with capped
//     exponential backoff whenever it drops
//   - the channel subscription set, replayed onto the wire on every
//     successful (re)connect
//   - synthetic connection_status frames, injected into the frame stream on
//     every state transition so consumers never have to poll
//
// Socket-level failures are never fatal; the only way to stop retrying is an
// explicit Close.
package connection
