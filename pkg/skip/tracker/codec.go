package tracker

import (
	"encoding/json"
	"errors"
)

// Codec converts skip values to and from the bytes stored in Redis.
type Codec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte) (any, error)
}

var errShortPayload = errors.New("empty skip payload")

const (
	markNone    byte = '0'
	markPresent byte = '1'
)

// JSON decodes values into the generic JSON shapes (float64, string,
// map[string]any, []any, ...).
func JSON() Codec {
	return JSONOf[any]()
}

// JSONOf decodes values into T.
func JSONOf[T any]() Codec {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonCodec[T]) Decode(data []byte) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// frame prefixes a payload with a presence marker so a stashed none and a
// present value never collide.
func frame(codec Codec, value any) ([]byte, error) {
	if value == nil {
		return []byte{markNone}, nil
	}
	payload, err := codec.Encode(value)
	if err != nil {
		return nil, err
	}
	return append([]byte{markPresent}, payload...), nil
}

func unframe(codec Codec, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errShortPayload
	}
	if data[0] == markNone {
		return nil, nil
	}
	return codec.Decode(data[1:])
}
