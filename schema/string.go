package schema

// String is a plain text schema
type String string

var _ Schema = String("")

// NewString returns a new String pointer
func NewString(v string) *String {
	s := String(v)
	return &s
}

func (s String) String() string {
	return string(s)
}

func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}
