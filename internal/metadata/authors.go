package metadata

import (
	"slices"
	"strconv"
	"strings"
)

// fallbackAuthorBlock stands in when the config lists no authors, so the
// template always receives a syntactically complete block.
const fallbackAuthorBlock = `% Use letters for affiliations, numbers to show equal authorship (if applicable) and to indicate the corresponding author
\author[1]{Author Name}
\affil[1]{Institution}`

// AuthorsAndAffiliations renders the \author and \affil preamble block.
// Affiliations are numbered by first appearance across the author list; each
// author's numbers are sorted, with * appended for co-first authors and
// \Letter for corresponding authors.
func AuthorsAndAffiliations(cfg *Config) string {
	if len(cfg.Authors) == 0 {
		return fallbackAuthorBlock
	}

	numbers, order := affiliationNumbers(cfg.Authors)

	var affils []string
	for i, short := range order {
		affils = append(affils, "\\affil["+strconv.Itoa(i+1)+"]{"+resolveAffiliation(cfg.Affiliations, short)+"}")
	}

	var authors []string
	hasCoFirst := false
	for _, a := range cfg.Authors {
		nums := make([]int, 0, len(a.Affiliations))
		for _, short := range a.Affiliations {
			if n, ok := numbers[short]; ok {
				nums = append(nums, n)
			}
		}
		slices.Sort(nums)

		parts := make([]string, 0, len(nums)+2)
		for _, n := range nums {
			parts = append(parts, strconv.Itoa(n))
		}
		if len(parts) == 0 {
			parts = append(parts, "1")
		}
		if a.CoFirst {
			parts = append(parts, "*")
			hasCoFirst = true
		}
		if a.Corresponding {
			parts = append(parts, "\\Letter")
		}
		authors = append(authors, "\\author["+strings.Join(parts, ",")+"]{"+a.Name+"}")
	}

	if hasCoFirst {
		affils = append(affils, "\\affil[*]{Equally contributed authors}")
	}

	return "% Authors and affiliations generated from metadata\n" +
		strings.Join(authors, "\n") + "\n" + strings.Join(affils, "\n")
}

// CorrespondingAuthors renders the corrauthor environment with abbreviated
// names and emails spelled with \at for the template's mail formatting.
func CorrespondingAuthors(cfg *Config) string {
	var entries []string
	for _, a := range cfg.Authors {
		if !a.Corresponding {
			continue
		}
		entry := "(" + abbreviateName(a.Name) + ")"
		if a.Email != "" {
			entry += " " + strings.ReplaceAll(a.Email, "@", "\\at ")
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return "% No corresponding authors found\n"
	}
	return "\\begin{corrauthor}\n" + strings.Join(entries, "; \n") + "\n\\end{corrauthor}"
}

// ExtendedAuthorInfo renders the per-author identity list: ORCID and social
// handles as template-defined icon commands.
func ExtendedAuthorInfo(cfg *Config) string {
	if len(cfg.Authors) == 0 {
		return "% No authors found for extended author information\n"
	}

	var items []string
	for _, a := range cfg.Authors {
		line := "\\item " + a.Name + ":"
		if a.ORCID != "" {
			line += "\n\\orcidicon{" + stripHandle(a.ORCID, "https://orcid.org/", "http://orcid.org/") + "};"
		}

		var icons []string
		switch {
		case a.X != "":
			handle := stripHandle(a.X, "@", "https://x.com/", "http://x.com/")
			icons = append(icons, "\\xicon{"+escapeHandle(handle)+"}")
		case a.Twitter != "":
			handle := stripHandle(a.Twitter, "@", "https://twitter.com/", "http://twitter.com/")
			icons = append(icons, "\\twittericon{"+escapeHandle(handle)+"}")
		}
		if a.Bluesky != "" {
			handle := stripHandle(a.Bluesky, "@", "https://bsky.app/profile/", "http://bsky.app/profile/")
			icons = append(icons, "\\blueskyicon{"+escapeHandle(handle)+"}")
		}
		if a.Linkedin != "" {
			handle := stripHandle(a.Linkedin, "https://linkedin.com/in/", "http://linkedin.com/in/")
			icons = append(icons, "\\linkedinicon{"+escapeHandle(handle)+"}")
		}
		if len(icons) > 0 {
			line += "\n" + strings.Join(icons, ";\n")
		}
		items = append(items, line)
	}

	return "\\vspace*{-\\baselineskip}\n" +
		"\\begin{itemize}\n" +
		"\\setlength\\itemsep{-0.5em}\n\n" +
		strings.Join(items, "\n\n") +
		"\n\n\\end{itemize}\n" +
		"\\vspace*{-.5\\baselineskip}"
}

// affiliationNumbers assigns numbers by first appearance across authors.
func affiliationNumbers(authors []Author) (map[string]int, []string) {
	numbers := make(map[string]int)
	var order []string
	for _, a := range authors {
		for _, short := range a.Affiliations {
			if _, seen := numbers[short]; !seen {
				numbers[short] = len(order) + 1
				order = append(order, short)
			}
		}
	}
	return numbers, order
}

// resolveAffiliation expands a short name to "Full Name, Location", falling
// back to the short name itself when no detail entry exists.
func resolveAffiliation(details []Affiliation, short string) string {
	for _, d := range details {
		if d.Shortname != short {
			continue
		}
		full := d.FullName
		if full == "" {
			full = short
		}
		if d.Location != "" {
			return full + ", " + d.Location
		}
		return full
	}
	return short
}

// abbreviateName turns "Ada Maria Lovelace" into "A. M. Lovelace".
func abbreviateName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	var initials []string
	for _, part := range parts[:len(parts)-1] {
		initials = append(initials, strings.ToUpper(part[:1])+".")
	}
	return strings.Join(initials, " ") + " " + parts[len(parts)-1]
}

// stripHandle removes any of the given prefixes or sigils from a handle.
func stripHandle(handle string, drop ...string) string {
	for _, d := range drop {
		handle = strings.ReplaceAll(handle, d, "")
	}
	return handle
}

// escapeHandle escapes LaTeX special characters that survive handle cleanup.
func escapeHandle(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"&", "\\&",
		"%", "\\%",
		"#", "\\#",
		"{", "\\{",
		"}", "\\}",
	)
	return replacer.Replace(s)
}
