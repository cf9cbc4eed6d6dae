// Package protocol implements the JSON frame codec for the Stellar Insights
// WebSocket feed.
//
// Every frame is a JSON object tagged by a "type" field. Decode maps each
// inbound frame to exactly one Envelope variant; frames with a recognized
// shape but an unknown type decode to TypeUnknown rather than failing, so
// the server can add message kinds without breaking older clients.
package protocol
