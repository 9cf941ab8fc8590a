// Package monitor implements the read-only gRPC transport of the kiosk.
//
// The PanelMonitor service uses only well-known protobuf types: requests are
// google.protobuf.Empty and every snapshot travels as a google.protobuf.Struct.
// The package holds the service descriptor, a typed client, the conversion
// between panel snapshots and structs, and a server calling into a provided
// snapshot source.
package monitor
