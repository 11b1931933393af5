package fuzzy

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func newTestFinder(input string) (*Finder, *bytes.Buffer) {
	out := &bytes.Buffer{}
	finder := New("Select repositories", strings.NewReader(input), out)
	finder.AddOption("acme/billing", "")
	finder.AddOption("acme/payments", "team payments")
	finder.AddOption("acme/search", "")
	finder.AddOption("other/search-ui", "")
	return finder, out
}

func TestNew(t *testing.T) {
	finder := New("Test prompt", strings.NewReader(""), &bytes.Buffer{})

	if finder == nil {
		t.Fatal("New should return a non-nil finder")
	}
	if finder.prompt != "Test prompt" {
		t.Errorf("Expected prompt 'Test prompt', got '%s'", finder.prompt)
	}
	if len(finder.GetOptions()) != 0 {
		t.Errorf("Expected 0 options, got %d", len(finder.GetOptions()))
	}
}

func TestSelectMany(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single number", "2\n", []string{"acme/payments"}},
		{"list and range", "4, 1-2\n", []string{"acme/billing", "acme/payments", "other/search-ui"}},
		{"all", "ALL\n", []string{"acme/billing", "acme/payments", "acme/search", "other/search-ui"}},
		{"filter by value", "search\n", []string{"acme/search", "other/search-ui"}},
		{"filter by description", "team\n", []string{"acme/payments"}},
		{"no trailing newline", "3", []string{"acme/search"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder, _ := newTestFinder(tt.input)

			got, err := finder.SelectMany()
			if err != nil {
				t.Fatalf("SelectMany failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSelectManyErrors(t *testing.T) {
	for _, input := range []string{"", "\n", "nothing-matches\n"} {
		finder, _ := newTestFinder(input)
		if _, err := finder.SelectMany(); err == nil {
			t.Errorf("Expected error for input %q", input)
		}
	}

	empty := New("Empty", strings.NewReader("1\n"), &bytes.Buffer{})
	if _, err := empty.SelectMany(); err == nil {
		t.Error("Expected error with no options")
	}
}

func TestSelectManyListsOptions(t *testing.T) {
	finder, out := newTestFinder("1\n")

	if _, err := finder.SelectMany(); err != nil {
		t.Fatalf("SelectMany failed: %v", err)
	}

	for _, want := range []string{"Select repositories", "1. acme/billing", "2. acme/payments - team payments"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestParseIndexes(t *testing.T) {
	finder, _ := newTestFinder("")

	tests := []struct {
		input string
		want  []int
		ok    bool
	}{
		{"1", []int{0}, true},
		{"3-4,1", []int{0, 2, 3}, true},
		{"2,2", []int{1}, true},
		{"0", nil, false},
		{"5", nil, false},
		{"3-1", nil, false},
		{"a-b", nil, false},
	}

	for _, tt := range tests {
		got, ok := finder.parseIndexes(tt.input)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseIndexes(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
