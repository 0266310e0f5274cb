package checkpoint

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec serializes checkpoint and metadata payloads. Pluggable so the store
// never commits to one wire format.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Payloads written by the retired binary scheme are framed by these markers.
const (
	legacyLeadByte  = 0x80
	legacyTrailByte = '.'
)

func isLegacyPayload(data []byte) bool {
	return len(data) >= 2 && data[0] == legacyLeadByte && data[len(data)-1] == legacyTrailByte
}

// JSONCodec is the primary serialization format.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// LegacyCodec reads and writes the retired gob-based framing. Kept so
// checkpoints written before the JSON migration stay readable.
type LegacyCodec struct{}

func (LegacyCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(legacyLeadByte)
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("checkpoint: legacy encode: %w", err)
	}
	buf.WriteByte(legacyTrailByte)
	return buf.Bytes(), nil
}

func (LegacyCodec) Unmarshal(data []byte, v any) error {
	if !isLegacyPayload(data) {
		return fmt.Errorf("checkpoint: payload is not legacy framed")
	}
	body := data[1 : len(data)-1]
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("checkpoint: legacy decode: %w", err)
	}
	return nil
}

// CompatCodec writes the primary format and transparently falls back to the
// legacy decoder when a payload carries the legacy byte markers.
type CompatCodec struct {
	Primary Codec
	Legacy  Codec
}

// NewCompatCodec returns the default JSON-primary, gob-legacy codec.
func NewCompatCodec() CompatCodec {
	return CompatCodec{Primary: JSONCodec{}, Legacy: LegacyCodec{}}
}

func (c CompatCodec) Marshal(v any) ([]byte, error) {
	return c.Primary.Marshal(v)
}

func (c CompatCodec) Unmarshal(data []byte, v any) error {
	if isLegacyPayload(data) {
		return c.Legacy.Unmarshal(data, v)
	}
	return c.Primary.Unmarshal(data, v)
}

// Document databases constrain binary field values, so payload bytes are
// stored base64-encoded in string fields and decoded on read.

func encodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func decodePayload(field string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(field)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not valid base64: %v", ErrCorruptCheckpoint, err)
	}
	return data, nil
}
