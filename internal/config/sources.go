package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Sources is the curated input list: which accounts to scrape, which
// searches to run, and the free-text curation instructions handed to the
// summarizer.
type Sources struct {
	Handles []string
	Queries []string
	Prompt  string
}

var sectionRegex = regexp.MustCompile(`(?m)^# `)

// ParseSources reads the Markdown sources file. The file has three top-level
// sections: "# Accounts" with "- @handle" items, "# Search Queries" with
// "- query" items, and "# Prompt" whose body is taken verbatim.
func ParseSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var accountsSection, searchSection, prompt string
	for _, section := range sectionRegex.Split(string(data), -1) {
		lower := strings.ToLower(section)
		switch {
		case strings.HasPrefix(lower, "accounts"):
			accountsSection = section
		case strings.HasPrefix(lower, "search"):
			searchSection = section
		case strings.HasPrefix(lower, "prompt"):
			if _, body, ok := strings.Cut(section, "\n"); ok {
				prompt = strings.TrimSpace(body)
			}
		}
	}

	src := &Sources{Prompt: prompt}

	for _, line := range strings.Split(accountsSection, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- @") {
			continue
		}
		if handle := strings.TrimSpace(strings.TrimPrefix(line, "- @")); handle != "" {
			src.Handles = append(src.Handles, handle)
		}
	}

	for _, line := range strings.Split(searchSection, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		if query := strings.TrimSpace(strings.TrimPrefix(line, "- ")); query != "" {
			src.Queries = append(src.Queries, query)
		}
	}

	if len(src.Handles) == 0 && len(src.Queries) == 0 {
		return nil, fmt.Errorf("config: %s defines no accounts and no search queries", path)
	}

	return src, nil
}
