package docket

import "testing"

func TestParseCaseInfo(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		caseName string
		docket   string
	}{
		{
			name:     "title with docket",
			title:    "Commonwealth v. Emilio Delarosa, SJC-13444",
			caseName: "Commonwealth v. Emilio Delarosa",
			docket:   "SJC-13444",
		},
		{
			name:     "title without docket",
			title:    "Mass Bar Association Presents Annual State of the Judiciary",
			caseName: "Mass Bar Association Presents Annual State of the Judiciary",
			docket:   "",
		},
		{
			name:     "whitespace before docket",
			title:    "Care and Protection of Rafael ,  SJC-13559",
			caseName: "Care and Protection of Rafael",
			docket:   "SJC-13559",
		},
		{
			name:     "docket in the middle is not extracted",
			title:    "Commonwealth v. Smith, SJC-13000, rearg",
			caseName: "Commonwealth v. Smith, SJC-13000, rearg",
			docket:   "",
		},
		{
			name:     "comma but no docket",
			title:    "Adoption of Daphne, argued en banc",
			caseName: "Adoption of Daphne, argued en banc",
			docket:   "",
		},
		{
			name:     "bare docket has no case name",
			title:    ", SJC-1",
			caseName: ", SJC-1",
			docket:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCaseInfo(tt.title)
			if got.CaseName != tt.caseName {
				t.Errorf("CaseName = %q, want %q", got.CaseName, tt.caseName)
			}
			if got.Docket != tt.docket {
				t.Errorf("Docket = %q, want %q", got.Docket, tt.docket)
			}
		})
	}
}
