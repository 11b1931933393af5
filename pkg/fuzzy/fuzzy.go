package fuzzy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Option represents a selectable option in the fuzzy finder
type Option struct {
	Value       string
	Description string
}

// Finder is the line-based picker used when fzf is unavailable
type Finder struct {
	prompt  string
	options []Option
	in      io.Reader
	out     io.Writer
}

// New creates a new line-based finder reading from in and writing to out
func New(prompt string, in io.Reader, out io.Writer) *Finder {
	return &Finder{
		prompt:  prompt,
		options: make([]Option, 0),
		in:      in,
		out:     out,
	}
}

// AddOption adds an option to the finder
func (f *Finder) AddOption(value, description string) {
	f.options = append(f.options, Option{
		Value:       value,
		Description: description,
	})
}

// GetOptions returns all available options
func (f *Finder) GetOptions() []Option {
	return f.options
}

// SelectMany lists the options and reads one line of selections: "all",
// numbers and ranges such as "1,3-4", or a filter text selecting every
// option whose value or description contains it.
func (f *Finder) SelectMany() ([]string, error) {
	if len(f.options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	fmt.Fprintln(f.out, f.prompt)
	fmt.Fprintln(f.out, strings.Repeat("-", len(f.prompt)))
	for i, option := range f.options {
		fmt.Fprintf(f.out, "%d. %s", i+1, option.Value)
		if option.Description != "" {
			fmt.Fprintf(f.out, " - %s", option.Description)
		}
		fmt.Fprintln(f.out)
	}
	fmt.Fprintf(f.out, "\nSelect (1-%d, ranges, 'all' or filter text): ", len(f.options))

	input, err := bufio.NewReader(f.in).ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return f.parseSelection(strings.TrimSpace(input))
}

func (f *Finder) parseSelection(input string) ([]string, error) {
	if input == "" {
		return nil, fmt.Errorf("no selection made")
	}

	if strings.EqualFold(input, "all") {
		values := make([]string, 0, len(f.options))
		for _, option := range f.options {
			values = append(values, option.Value)
		}
		return values, nil
	}

	if indexes, ok := f.parseIndexes(input); ok {
		values := make([]string, 0, len(indexes))
		for _, i := range indexes {
			values = append(values, f.options[i].Value)
		}
		return values, nil
	}

	filtered := f.filterOptions(input)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no options match filter: %s", input)
	}
	values := make([]string, 0, len(filtered))
	for _, option := range filtered {
		values = append(values, option.Value)
	}
	return values, nil
}

// parseIndexes parses "1,3-4" into zero-based indexes in option order.
// It reports false when input is not a list of in-range numbers.
func (f *Finder) parseIndexes(input string) ([]int, bool) {
	selected := make([]bool, len(f.options))

	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		lo, hi := field, field
		if before, after, found := strings.Cut(field, "-"); found {
			lo, hi = before, after
		}

		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, false
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, false
		}
		if start < 1 || end > len(f.options) || start > end {
			return nil, false
		}
		for i := start; i <= end; i++ {
			selected[i-1] = true
		}
	}

	var indexes []int
	for i, ok := range selected {
		if ok {
			indexes = append(indexes, i)
		}
	}
	return indexes, len(indexes) > 0
}

// filterOptions filters options based on the input string
func (f *Finder) filterOptions(filter string) []Option {
	filter = strings.ToLower(filter)
	var filtered []Option

	for _, option := range f.options {
		if strings.Contains(strings.ToLower(option.Value), filter) ||
			strings.Contains(strings.ToLower(option.Description), filter) {
			filtered = append(filtered, option)
		}
	}

	return filtered
}
