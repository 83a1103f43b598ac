package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexInt accepts both JSON numbers and numeric strings; the API uses both
// for the same fields depending on endpoint.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("flexInt: %q is not an integer", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("flexInt: %s is not an integer", n)
	}
	*f = flexInt(i)
	return nil
}

type chapter struct {
	ID             flexInt `json:"id"`
	ChapterNumber  flexInt `json:"chapterNumber"`
	ChapterEnglish string  `json:"chapterEnglish"`
	ChapterArabic  string  `json:"chapterArabic"`
}

// chaptersResponse carries either a bare chapter array or a paginated object.
type chaptersResponse struct {
	Status   flexInt         `json:"status"`
	Chapters json.RawMessage `json:"chapters"`
}

type paginatedChapters struct {
	CurrentPage flexInt   `json:"current_page"`
	LastPage    flexInt   `json:"last_page"`
	Data        []chapter `json:"data"`
}

// decode returns the chapters of this response and the last page number.
func (r chaptersResponse) decode() ([]chapter, int, error) {
	raw := bytes.TrimSpace(r.Chapters)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, 0, fmt.Errorf("missing chapters")
	}
	if raw[0] == '[' {
		var list []chapter
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, 0, err
		}
		return list, 1, nil
	}
	var page paginatedChapters
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, 0, err
	}
	if page.Data == nil {
		return nil, 0, fmt.Errorf("missing chapters data")
	}
	return page.Data, max(int(page.LastPage), 1), nil
}

type wireHadith struct {
	HadithNumber    flexInt `json:"hadithNumber"`
	EnglishNarrator string  `json:"englishNarrator"`
	HadithEnglish   string  `json:"hadithEnglish"`
	HadithArabic    string  `json:"hadithArabic"`
	ChapterID       flexInt `json:"chapterId"`
	Status          string  `json:"status"`
	Chapter         *struct {
		ChapterNumber  flexInt `json:"chapterNumber"`
		ChapterEnglish string  `json:"chapterEnglish"`
	} `json:"chapter"`
}

type hadithsResponse struct {
	Status  flexInt `json:"status"`
	Message string  `json:"message"`
	Hadiths *struct {
		CurrentPage flexInt      `json:"current_page"`
		LastPage    flexInt      `json:"last_page"`
		PerPage     flexInt      `json:"per_page"`
		Total       flexInt      `json:"total"`
		Data        []wireHadith `json:"data"`
	} `json:"hadiths"`
}
