package kvpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// field numbers of the KvService contract
const (
	fieldNamespace protowire.Number = 1
	fieldProfile   protowire.Number = 2
	fieldKey       protowire.Number = 3
	fieldValue     protowire.Number = 4
	fieldData      protowire.Number = 1

	fieldEntryKey   protowire.Number = 1
	fieldEntryValue protowire.Number = 2
)

// Message is implemented by every request and response of the KvService contract.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// GetRequest asks for a single key.
type GetRequest struct {
	Namespace string
	Profile   string
	Key       string
}

// SetKeyRequest stores a value, used by both plain and secret set.
type SetKeyRequest struct {
	Namespace string
	Profile   string
	Key       string
	Value     string
}

// DeleteKeyRequest removes a single key.
type DeleteKeyRequest struct {
	Namespace string
	Profile   string
	Key       string
}

// GetByNamespaceAndProfileRequest asks for every key under namespace and profile.
type GetByNamespaceAndProfileRequest struct {
	Namespace string
	Profile   string
}

// StringResponse carries a single string payload, a value or a confirmation.
type StringResponse struct {
	Data string
}

// MapResponse carries key to value pairs.
type MapResponse struct {
	Data map[string]string
}

// Marshal encodes the request in protobuf wire format.
func (m *GetRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, fieldNamespace, m.Namespace)
	b = appendString(b, fieldProfile, m.Profile)
	b = appendString(b, fieldKey, m.Key)
	return b, nil
}

// Unmarshal decodes the request from protobuf wire format.
func (m *GetRequest) Unmarshal(data []byte) error {
	*m = GetRequest{}
	return consumeFields(data, func(num protowire.Number, val []byte) {
		switch num {
		case fieldNamespace:
			m.Namespace = string(val)
		case fieldProfile:
			m.Profile = string(val)
		case fieldKey:
			m.Key = string(val)
		}
	})
}

// Marshal encodes the request in protobuf wire format.
func (m *SetKeyRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, fieldNamespace, m.Namespace)
	b = appendString(b, fieldProfile, m.Profile)
	b = appendString(b, fieldKey, m.Key)
	b = appendString(b, fieldValue, m.Value)
	return b, nil
}

// Unmarshal decodes the request from protobuf wire format.
func (m *SetKeyRequest) Unmarshal(data []byte) error {
	*m = SetKeyRequest{}
	return consumeFields(data, func(num protowire.Number, val []byte) {
		switch num {
		case fieldNamespace:
			m.Namespace = string(val)
		case fieldProfile:
			m.Profile = string(val)
		case fieldKey:
			m.Key = string(val)
		case fieldValue:
			m.Value = string(val)
		}
	})
}

// Marshal encodes the request in protobuf wire format.
func (m *DeleteKeyRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, fieldNamespace, m.Namespace)
	b = appendString(b, fieldProfile, m.Profile)
	b = appendString(b, fieldKey, m.Key)
	return b, nil
}

// Unmarshal decodes the request from protobuf wire format.
func (m *DeleteKeyRequest) Unmarshal(data []byte) error {
	*m = DeleteKeyRequest{}
	return consumeFields(data, func(num protowire.Number, val []byte) {
		switch num {
		case fieldNamespace:
			m.Namespace = string(val)
		case fieldProfile:
			m.Profile = string(val)
		case fieldKey:
			m.Key = string(val)
		}
	})
}

// Marshal encodes the request in protobuf wire format.
func (m *GetByNamespaceAndProfileRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, fieldNamespace, m.Namespace)
	b = appendString(b, fieldProfile, m.Profile)
	return b, nil
}

// Unmarshal decodes the request from protobuf wire format.
func (m *GetByNamespaceAndProfileRequest) Unmarshal(data []byte) error {
	*m = GetByNamespaceAndProfileRequest{}
	return consumeFields(data, func(num protowire.Number, val []byte) {
		switch num {
		case fieldNamespace:
			m.Namespace = string(val)
		case fieldProfile:
			m.Profile = string(val)
		}
	})
}

// Marshal encodes the response in protobuf wire format.
func (m *StringResponse) Marshal() ([]byte, error) {
	return appendString(nil, fieldData, m.Data), nil
}

// Unmarshal decodes the response from protobuf wire format.
func (m *StringResponse) Unmarshal(data []byte) error {
	*m = StringResponse{}
	return consumeFields(data, func(num protowire.Number, val []byte) {
		if num == fieldData {
			m.Data = string(val)
		}
	})
}

// Marshal encodes the response in protobuf wire format.
// Each map entry is a nested message with key=1 and value=2, as protoc emits for map<string,string>.
func (m *MapResponse) Marshal() ([]byte, error) {
	var b []byte
	for k, v := range m.Data {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldEntryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, fieldEntryValue, protowire.BytesType)
		entry = protowire.AppendString(entry, v)

		b = protowire.AppendTag(b, fieldData, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b, nil
}

// Unmarshal decodes the response from protobuf wire format.
func (m *MapResponse) Unmarshal(data []byte) error {
	*m = MapResponse{Data: map[string]string{}}
	var entryErr error
	err := consumeFields(data, func(num protowire.Number, val []byte) {
		if num != fieldData || entryErr != nil {
			return
		}
		var key, value string
		entryErr = consumeFields(val, func(num protowire.Number, v []byte) {
			switch num {
			case fieldEntryKey:
				key = string(v)
			case fieldEntryValue:
				value = string(v)
			}
		})
		m.Data[key] = value
	})
	if err != nil {
		return err
	}
	if entryErr != nil {
		return fmt.Errorf("map entry: %w", entryErr)
	}
	return nil
}

// appendString appends a length-delimited string field, empty strings are omitted as in proto3.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// consumeFields walks all fields in data and calls fn for every length-delimited one.
// Fields of other wire types are skipped.
func consumeFields(data []byte, fn func(num protowire.Number, val []byte)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("consume tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		val, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return fmt.Errorf("consume field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]
		fn(num, val)
	}
	return nil
}
