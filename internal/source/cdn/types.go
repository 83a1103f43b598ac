package cdn

import (
	"math"
	"sort"
	"strconv"
)

// infoCollection is one entry of info.json. The per-hadith index that
// info.json also carries is not decoded.
type infoCollection struct {
	Metadata infoMetadata `json:"metadata"`
}

type infoMetadata struct {
	Name           string                   `json:"name"`
	Sections       map[string]string        `json:"sections"`
	SectionDetails map[string]sectionDetail `json:"section_details"`
}

type sectionDetail struct {
	HadithFirst float64 `json:"hadithnumber_first"`
	HadithLast  float64 `json:"hadithnumber_last"`
}

// document is the shape of both section files and single-hadith files.
type document struct {
	Metadata struct {
		Name string `json:"name"`
	} `json:"metadata"`
	Hadiths []wireHadith `json:"hadiths"`
}

type wireHadith struct {
	HadithNumber float64     `json:"hadithnumber"`
	Text         string      `json:"text"`
	Grades       []wireGrade `json:"grades"`
	Reference    struct {
		Book   int `json:"book"`
		Hadith int `json:"hadith"`
	} `json:"reference"`
}

type wireGrade struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// number returns the hadith number when it is a positive integer.
// Sub-numbered entries such as 8.2 are not addressable canonically.
func (w wireHadith) number() (int, bool) {
	n := w.HadithNumber
	if n < 1 || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// span is one section's position in the collection-wide numbering.
type span struct {
	Section int
	Name    string
	First   int
	Last    int
}

func (s span) count() int {
	if s.First < 1 || s.Last < s.First {
		return 0
	}
	return s.Last - s.First + 1
}

// spans lists the numbered sections of a collection in order. Section 0 is
// the untitled introduction some editions carry and is skipped.
func (m infoMetadata) spans() []span {
	seen := make(map[int]bool)
	var out []span
	add := func(key string) {
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || seen[n] {
			return
		}
		seen[n] = true
		d := m.SectionDetails[key]
		out = append(out, span{
			Section: n,
			Name:    m.Sections[key],
			First:   int(d.HadithFirst),
			Last:    int(d.HadithLast),
		})
	}
	for key := range m.Sections {
		add(key)
	}
	for key := range m.SectionDetails {
		add(key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out
}
