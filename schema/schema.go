package schema

import "encoding/json"

// Schema is message content interface
type Schema interface {
	String() string
}

// Stringify returns the text form of a schema, structured schemas are encoded as JSON
func Stringify(s Schema) string {
	if s == nil {
		return ""
	}
	switch v := s.(type) {
	case String:
		return string(v)
	case *String:
		return string(*v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes returns the bytes form of a schema
func ToBytes(s Schema) []byte {
	return []byte(Stringify(s))
}
