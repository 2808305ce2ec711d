// Package codec holds the CBOR encoding configuration used for archived
// roster snapshots.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// snapshot always produces identical bytes. That makes archived snapshots
// comparable by checksum.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
//
// Types with `json` tags only are encoded using those names; fxamacker/cbor
// reads `json` tags when no `cbor` tag is present.
package codec
