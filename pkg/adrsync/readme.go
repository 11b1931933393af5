package adrsync

import "bytes"

const (
	// ADRDir holds the decision records, relative to the repository root
	ADRDir = "ADRs"
	// ADRFile is the bootstrap record written from the template
	ADRFile = ADRDir + "/ADR-000.md"
	// ReadmeFile is the README that gets the ADR section
	ReadmeFile = "README.md"

	// ReadmeSection is appended verbatim to a README without ADR references
	ReadmeSection = "\n## Design decisions / ADRs\n- Architecture decisions are recorded in [ADRs/](ADRs/).\n"
)

// readmeMarkers, when any is present, mean the README already points at the ADRs
var readmeMarkers = [][]byte{
	[]byte("ADRs/"),
	[]byte("Design decisions / ADRs"),
}

// HasADRSection reports whether README content already references the ADRs
func HasADRSection(content []byte) bool {
	for _, marker := range readmeMarkers {
		if bytes.Contains(content, marker) {
			return true
		}
	}
	return false
}

// PatchReadme returns content with ReadmeSection appended, unless it already
// references the ADRs, in which case content is returned untouched.
func PatchReadme(content []byte) ([]byte, bool) {
	if HasADRSection(content) {
		return content, false
	}

	patched := make([]byte, 0, len(content)+len(ReadmeSection))
	patched = append(patched, content...)
	patched = append(patched, ReadmeSection...)
	return patched, true
}

// patchReadmeFile applies PatchReadme to README.md in wc. A missing README
// is treated as empty.
func patchReadmeFile(wc WorkingCopy) (bool, error) {
	content, _, err := wc.ReadFile(ReadmeFile)
	if err != nil {
		return false, err
	}

	patched, changed := PatchReadme(content)
	if !changed {
		return false, nil
	}

	if err := wc.WriteFile(ReadmeFile, patched); err != nil {
		return false, err
	}
	return true, nil
}

// materializeTemplate writes the template to ADRFile in wc, overwriting
func materializeTemplate(wc WorkingCopy, tmpl *Template) error {
	return wc.WriteFile(ADRFile, tmpl.Bytes())
}
