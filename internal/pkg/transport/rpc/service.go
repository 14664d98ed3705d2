// Package rpc carries wire frames over a bidirectional gRPC stream.
//
// The service has a single streaming method, /netdemo.Sync/Connect. Frames
// are exchanged verbatim through Codec, so no generated message types are
// involved. The handshake secret travels in the SecretMetadataKey request
// metadata; a wrong secret ends the stream with codes.PermissionDenied and a
// full server with codes.ResourceExhausted.
package rpc

import (
	"google.golang.org/grpc"
)

// SecretMetadataKey is the request metadata carrying the handshake secret.
const SecretMetadataKey = "x-netdemo-secret"

// ConnectMethod is the full method name of the stream.
const ConnectMethod = "/netdemo.Sync/Connect"

// SyncServer is the server API of the Sync service.
type SyncServer interface {
	Connect(grpc.ServerStream) error
}

func connectHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(SyncServer).Connect(stream)
}

// ServiceDesc describes the Sync service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "netdemo.Sync",
	HandlerType: (*SyncServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       connectHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "netdemo/sync",
}
