package fuzzy

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// MultiSelector picks any number of values
type MultiSelector interface {
	SelectMany() ([]string, error)
}

// IsTerminal reports whether r is an interactive terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PickRepositories lets the user narrow repos down. On a terminal fzf is
// used; otherwise a numbered list is printed to out and one line is read
// from in. The result keeps the order of repos.
func PickRepositories(repos []string, in io.Reader, out io.Writer) ([]string, error) {
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repositories to pick from")
	}

	var selector MultiSelector
	if IsTerminal(in) {
		finder := NewFzf("Repositories>")
		options := make([]Option, 0, len(repos))
		for _, repo := range repos {
			options = append(options, Option{Value: repo})
		}
		if err := finder.SetOptions(options); err != nil {
			return nil, err
		}
		selector = finder
	} else {
		finder := New("Select repositories", in, out)
		for _, repo := range repos {
			finder.AddOption(repo, "")
		}
		selector = finder
	}

	return pick(selector, repos)
}

// pick runs selector and returns the chosen values in the order of repos
func pick(selector MultiSelector, repos []string) ([]string, error) {
	chosen, err := selector.SelectMany()
	if err != nil {
		return nil, err
	}

	marked := make(map[string]bool, len(chosen))
	for _, value := range chosen {
		marked[value] = true
	}

	var picked []string
	for _, repo := range repos {
		if marked[repo] {
			picked = append(picked, repo)
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no repositories selected")
	}
	return picked, nil
}
