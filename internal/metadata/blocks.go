package metadata

import "strings"

// Keywords renders the keywords environment, entries joined with " | ".
func Keywords(cfg *Config) string {
	if len(cfg.Keywords) == 0 {
		return "% No keywords found\n"
	}
	return "\\begin{keywords}\n" + strings.Join(cfg.Keywords, " | ") + "\n\\end{keywords}"
}

// Bibliography renders the \bibliography command, stripping a .bib suffix so
// both spellings work in the config.
func Bibliography(cfg *Config) string {
	name := cfg.Bibliography
	if name == "" {
		name = DefaultBibliography
	}
	name = strings.TrimSuffix(name, ".bib")
	return "\\bibliography{" + name + "}"
}

// LineNumbers renders the lineno preamble when enabled, empty otherwise.
func LineNumbers(cfg *Config) string {
	if !cfg.UseLineNumbers {
		return ""
	}
	return "% Add number to the lines\n\\usepackage{lineno}\n\\linenumbers\n"
}

// LeadAuthor renders the running-header \leadauthor command. An explicit
// title.lead_author wins; otherwise the first author's last name is used.
func LeadAuthor(cfg *Config) string {
	lead := cfg.Title.LeadAuthor
	if lead == "" && len(cfg.Authors) > 0 {
		if parts := strings.Fields(cfg.Authors[0].Name); len(parts) > 0 {
			lead = parts[len(parts)-1]
		}
	}
	if lead == "" {
		lead = "Unknown"
	}
	return "\\leadauthor{" + lead + "}\n"
}

// LongTitle renders the \title command.
func LongTitle(cfg *Config) string {
	title := cfg.Title.Long
	if title == "" {
		title = "Untitled Article"
	}
	return "\\title{" + title + "}\n"
}

// ShortTitle renders the \shorttitle command for the running header, derived
// from the long title when no short form is configured.
func ShortTitle(cfg *Config) string {
	title := cfg.Title.Short
	if title == "" {
		title = cfg.Title.Long
		if len(title) > 50 {
			title = title[:50] + "..."
		}
	}
	if title == "" {
		title = "Untitled"
	}
	return "\\shorttitle{" + title + "}\n"
}
