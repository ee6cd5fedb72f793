package diag

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseExpectations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Diagnostic
	}{
		{
			name: "positioned marker",
			text: "//! ERROR(3:5): undefined identifier 'x'\n",
			want: []Diagnostic{NewAt("undefined identifier 'x'", 3, 5)},
		},
		{
			name: "unpositioned marker",
			text: "//! ERROR: main function missing\n",
			want: []Diagnostic{New("main function missing")},
		},
		{
			name: "marker after code on the same line",
			text: "let x = y; //! ERROR(1:9): undefined identifier 'y'\n",
			want: []Diagnostic{NewAt("undefined identifier 'y'", 1, 9)},
		},
		{
			name: "marker position is the captured one, not the physical line",
			text: "fn main() {\n}\n//! ERROR(1:4): bad name\n",
			want: []Diagnostic{NewAt("bad name", 1, 4)},
		},
		{
			name: "plain code produces nothing",
			text: "fn main() {\n    return 0;\n}\n",
			want: nil,
		},
		{
			name: "empty fixture produces nothing",
			text: "",
			want: nil,
		},
		{
			name: "several markers across lines keep order",
			text: "//! ERROR(1:1): first\ncode\n//! ERROR: second\n",
			want: []Diagnostic{NewAt("first", 1, 1), New("second")},
		},
		{
			name: "positioned wins over unpositioned",
			text: "//! ERROR(2:3): real position\n",
			want: []Diagnostic{NewAt("real position", 2, 3)},
		},
		{
			name: "missing space after unpositioned colon is not a marker",
			text: "//! ERROR:no space\n",
			want: nil,
		},
		{
			name: "malformed position is not a marker",
			text: "//! ERROR(3): missing column\n",
			want: nil,
		},
		{
			name: "optional space after positioned colon",
			text: "//! ERROR(3:5):tight message\n",
			want: []Diagnostic{NewAt("tight message", 3, 5)},
		},
		{
			name: "empty message is allowed",
			text: "//! ERROR(3:5): \n",
			want: []Diagnostic{NewAt("", 3, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpectations(tt.text)
			if err != nil {
				t.Fatalf("ParseExpectations() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseExpectations() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseExpectations_Idempotent(t *testing.T) {
	text := "//! ERROR(3:5): undefined identifier 'x'\ncode //! ERROR: general failure\n"

	first, err := ParseExpectations(text)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseExpectations(text)
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing is not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseExpectations_PositionOverflow(t *testing.T) {
	_, err := ParseExpectations("//! ERROR(99999999999:1): way out there\n")
	if err == nil {
		t.Fatal("expected an error for a position that does not fit in uint32")
	}
	if !strings.Contains(err.Error(), "expectation marker") {
		t.Errorf("error %q does not identify the offending marker", err)
	}
}

func TestHasSkipMarker(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "bare marker", text: "//! SKIP\n", want: true},
		{name: "marker with surrounding whitespace", text: "   //! SKIP  \n", want: true},
		{name: "marker below code", text: "fn main() {}\n//! SKIP\n", want: true},
		{name: "no marker", text: "fn main() {}\n", want: false},
		{name: "marker must own the line", text: "code() //! SKIP\n", want: false},
		{name: "error marker is not a skip", text: "//! ERROR: nope\n", want: false},
		{name: "empty text", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasSkipMarker(tt.text); got != tt.want {
				t.Errorf("HasSkipMarker(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
