// Package docket extracts case metadata from video titles.
package docket

import (
	"regexp"
	"strings"
)

// Court upload titles end with a docket number, e.g.
// "Commonwealth v. Emilio Delarosa, SJC-13444". Titles without one
// (ceremonies, bar events) are kept whole.
var docketRegex = regexp.MustCompile(`^(.+),\s*(SJC-\d+)$`)

// CaseInfo holds the parsed components of an upload title.
type CaseInfo struct {
	// CaseName is the title with any trailing docket reference removed.
	CaseName string
	// Docket is the docket number, e.g. "SJC-13444". Empty if the title
	// carries none.
	Docket string
}

// ParseCaseInfo splits a video title into case name and docket number.
// Titles that do not match the docket pattern return the full title as
// the case name and an empty docket.
func ParseCaseInfo(title string) CaseInfo {
	if m := docketRegex.FindStringSubmatch(title); m != nil {
		return CaseInfo{
			CaseName: strings.TrimSpace(m[1]),
			Docket:   m[2],
		}
	}
	return CaseInfo{CaseName: title}
}
