package service

import (
	"github.com/dupescan/dupescan/domain"
)

// OutputFormatResolver resolves the effective output format from mutually
// exclusive command-line flags.
type OutputFormatResolver struct{}

// NewOutputFormatResolver creates a new format resolver
func NewOutputFormatResolver() *OutputFormatResolver {
	return &OutputFormatResolver{}
}

// Determine maps the format flags to a single OutputFormat. At most one flag
// may be set; zero flags means text.
func (r *OutputFormatResolver) Determine(jsonFlag, yamlFlag, csvFlag bool) (domain.OutputFormat, error) {
	count := 0
	for _, flag := range []bool{jsonFlag, yamlFlag, csvFlag} {
		if flag {
			count++
		}
	}
	if count > 1 {
		return "", domain.NewValidationError("only one of --json, --yaml, --csv may be specified")
	}

	switch {
	case jsonFlag:
		return domain.OutputFormatJSON, nil
	case yamlFlag:
		return domain.OutputFormatYAML, nil
	case csvFlag:
		return domain.OutputFormatCSV, nil
	default:
		return domain.OutputFormatText, nil
	}
}

// Parse validates a format name given as a string value.
func (r *OutputFormatResolver) Parse(name string) (domain.OutputFormat, error) {
	switch domain.OutputFormat(name) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
		return domain.OutputFormat(name), nil
	case "":
		return domain.OutputFormatText, nil
	default:
		return "", domain.NewUnsupportedFormatError(name)
	}
}
