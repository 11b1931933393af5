package fuzzy

import (
	"fmt"
	"io"
	"os"
	"strings"

	fzf "github.com/junegunn/fzf/src"
)

const descriptionSeparator = "  │  "

// FzfRunner defines the interface for running fzf
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner implements the FzfRunner interface using the real fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// FzfFinder picks any number of options with fzf
type FzfFinder struct {
	options  []Option
	prompt   string
	runner   FzfRunner
	fallback func(prompt string, options []Option) ([]string, error)
}

// NewFzf creates a new fzf multi-select finder
func NewFzf(prompt string) *FzfFinder {
	return NewFzfWithRunner(prompt, &DefaultFzfRunner{})
}

// NewFzfWithRunner creates a new fzf finder with a custom runner (for testing)
func NewFzfWithRunner(prompt string, runner FzfRunner) *FzfFinder {
	return &FzfFinder{
		prompt:   prompt,
		options:  make([]Option, 0),
		runner:   runner,
		fallback: stdioFallback,
	}
}

// SetOptions sets the available options for selection
func (f *FzfFinder) SetOptions(options []Option) error {
	if options == nil {
		return fmt.Errorf("options cannot be nil")
	}

	f.options = make([]Option, len(options))
	copy(f.options, options)
	return nil
}

// SetPrompt sets the display prompt
func (f *FzfFinder) SetPrompt(prompt string) {
	f.prompt = prompt
}

// SelectMany runs fzf in multi-select mode and returns the chosen values in
// the order fzf printed them. When fzf cannot start the line-based Finder is
// used instead.
func (f *FzfFinder) SelectMany() ([]string, error) {
	if len(f.options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	tmpFile, err := os.CreateTemp("", "adrsync-fzf-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	for _, option := range f.options {
		if _, err := fmt.Fprintln(tmpFile, displayText(option)); err != nil {
			_ = tmpFile.Close()
			return nil, fmt.Errorf("failed to write option to file: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	args := []string{
		"--prompt=" + f.prompt + " ",
		"--height=40%",
		"--multi",
		"--bind=ctrl-a:select-all",
		"--header=TAB to mark, ctrl-a to mark all, Enter to confirm",
		"--cycle",
		"--extended",
		"--algo=v2",
		"--no-mouse",
		"--border=none",
	}

	opts, err := fzf.ParseOptions(true, args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fzf options: %w", err)
	}

	input, err := os.Open(tmpFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary file for reading: %w", err)
	}
	defer func() {
		_ = input.Close()
	}()

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()

	// fzf reads candidates from stdin and prints selections to stdout
	originalStdin, originalStdout := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = input, w

	var output []byte
	done := make(chan struct{})
	go func() {
		output, _ = io.ReadAll(r)
		close(done)
	}()

	exitCode, runErr := f.runner.Run(opts)

	os.Stdin, os.Stdout = originalStdin, originalStdout
	_ = w.Close()
	<-done

	if runErr != nil {
		return f.fallback(f.prompt, f.options)
	}
	if exitCode != fzf.ExitOk {
		return nil, fmt.Errorf("fzf selection cancelled or failed")
	}

	selected := f.parseOutput(string(output))
	if len(selected) == 0 {
		return nil, fmt.Errorf("no selection made")
	}
	return selected, nil
}

// parseOutput maps fzf output lines back to option values
func (f *FzfFinder) parseOutput(output string) []string {
	var values []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		value, _, _ := strings.Cut(line, strings.TrimSpace(descriptionSeparator))
		values = append(values, strings.TrimSpace(value))
	}
	return values
}

func displayText(option Option) string {
	if option.Description == "" {
		return option.Value
	}
	return option.Value + descriptionSeparator + option.Description
}

func stdioFallback(prompt string, options []Option) ([]string, error) {
	finder := New(prompt, os.Stdin, os.Stderr)
	for _, option := range options {
		finder.AddOption(option.Value, option.Description)
	}
	return finder.SelectMany()
}
