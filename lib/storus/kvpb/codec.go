package kvpb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Codec carries kvpb messages over gRPC. It reports the name "proto" so
// requests go out as application/grpc+proto and interoperate with any
// protoc-generated KvService server.
type Codec struct{}

var _ encoding.Codec = Codec{}

// Marshal encodes v, which must be a kvpb Message.
func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("kvpb codec: unsupported message type %T", v)
	}
	return m.Marshal()
}

// Unmarshal decodes data into v, which must be a kvpb Message.
func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("kvpb codec: unsupported message type %T", v)
	}
	return m.Unmarshal(data)
}

// Name returns the content-subtype of the codec.
func (Codec) Name() string {
	return "proto"
}
