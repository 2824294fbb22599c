package validation

import (
	"strings"
	"testing"
)

type edge struct {
	Pair []string `validate:"len=2,dive,nodename"`
}

type script struct {
	Nodes []string `validate:"required,min=1,dive,nodename"`
	Edges []edge   `validate:"dive"`
	Mode  string   `validate:"omitempty,oneof=text mermaid"`
}

func TestStruct_Valid(t *testing.T) {
	s := script{
		Nodes: []string{"a", "b", "node-3"},
		Edges: []edge{{Pair: []string{"a", "b"}}},
		Mode:  "mermaid",
	}
	if err := Struct(s); err != nil {
		t.Fatalf("Struct() = %v", err)
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	s := script{
		Edges: []edge{{Pair: []string{"a"}}},
		Mode:  "svg",
	}
	err := Struct(s)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msg := err.Error()
	for _, want := range []string{"Nodes: field is required", "Pair: must have exactly 2", "Mode: must be one of"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestStruct_NodeNameTag(t *testing.T) {
	err := Struct(script{Nodes: []string{"ok", "not ok"}})
	if err == nil || !strings.Contains(err.Error(), "invalid node name") {
		t.Fatalf("expected node name error, got %v", err)
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("expected error for nil value")
	}
}

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"1", false},
		{"sensor_7", false},
		{"rack:a.3", false},
		{"", true},
		{"with space", true},
		{strings.Repeat("x", MaxNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
