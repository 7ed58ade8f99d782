package schema

import "testing"

type decomposition struct {
	Base
	Subquestions []string `json:"subquestions"`
}

func (d decomposition) String() string {
	return JSON(d)
}

func TestStringify(t *testing.T) {
	if got := Stringify(String("plain text")); got != "plain text" {
		t.Errorf("expect plain text, but got %s", got)
	}
	if got := Stringify(NewString("pointer text")); got != "pointer text" {
		t.Errorf("expect pointer text, but got %s", got)
	}
	if got := Stringify(nil); got != "" {
		t.Errorf("expect empty string, but got %s", got)
	}
	v := decomposition{Subquestions: []string{"a", "b"}}
	if got := Stringify(v); got != `{"subquestions":["a","b"]}` {
		t.Errorf("unexpected json encoding: %s", got)
	}
}
