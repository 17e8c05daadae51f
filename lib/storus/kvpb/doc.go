// Package kvpb holds the wire contract of the stoo KvService: request and
// response messages, their protobuf encoding, a gRPC codec carrying them,
// the client stub and the service descriptor.
//
// The messages are hand-written against the server's kv.proto:
//
//	service KvService {
//	  rpc GetService(GetRequest) returns (StringResponse);
//	  rpc SetKeyService(SetKeyRequest) returns (StringResponse);
//	  rpc SetSecretKeyService(SetKeyRequest) returns (StringResponse);
//	  rpc DeleteKeyService(DeleteKeyRequest) returns (StringResponse);
//	  rpc GetServiceByNamespaceAndProfile(GetByNamespaceAndProfileRequest) returns (MapResponse);
//	}
//
// Request fields are numbered namespace=1, profile=2, key=3, value=4, and
// every response carries its payload in field 1.
package kvpb
