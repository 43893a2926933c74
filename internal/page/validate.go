package page

import "os"

// ValidationResult holds the three structural checks performed on a
// descriptor before any document assembly is attempted.
type ValidationResult struct {
	DateValid       bool
	PageNumberValid bool
	FileSizeValid   bool
}

// OK reports whether every check passed.
func (r ValidationResult) OK() bool {
	return r.DateValid && r.PageNumberValid && r.FileSizeValid
}

// Validate checks a descriptor for structural soundness: a complete date,
// a fixed-width numeric page number, and a readable non-empty backing file.
func Validate(d Descriptor) ValidationResult {
	return ValidationResult{
		DateValid:       d.Date != "" && d.Year != "" && d.Month != "" && d.Day != "",
		PageNumberValid: pageNumberPattern.MatchString(d.PageNumber),
		FileSizeValid:   isFileReadable(d.FilePath),
	}
}

func isFileReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
