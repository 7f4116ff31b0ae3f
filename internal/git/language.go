package git

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var languageByExtension = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".java":  "Java",
	".cpp":   "C++",
	".c":     "C",
	".cs":    "C#",
	".php":   "PHP",
	".rb":    "Ruby",
	".go":    "Go",
	".rs":    "Rust",
	".swift": "Swift",
	".kt":    "Kotlin",
}

// PrimaryLanguage walks the working tree, counts file extensions outside
// the .git directory and maps the most frequent one to a language name.
// Unmapped extensions are returned verbatim; an empty tree yields "".
func (e *Extractor) PrimaryLanguage() string {
	counts := make(map[string]int)

	filepath.WalkDir(e.repo.Path(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(d.Name()); ext != "" {
			counts[ext]++
		}
		return nil
	})

	var topExt string
	var topCount int
	for ext, count := range counts {
		if count > topCount || (count == topCount && ext < topExt) {
			topExt = ext
			topCount = count
		}
	}
	if topExt == "" {
		return ""
	}

	if lang, ok := languageByExtension[strings.ToLower(topExt)]; ok {
		return lang
	}
	return topExt
}
