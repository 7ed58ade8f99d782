package schema

import "encoding/json"

// Base is a base schema, embed it in structured schemas
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}

// JSON encodes any structured schema as a JSON string
func JSON(v any) string {
	bs, _ := json.Marshal(v)
	return string(bs)
}
