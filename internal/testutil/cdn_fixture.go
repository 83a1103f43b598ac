package testutil

import (
	"encoding/json"
	"fmt"
)

// CDN fixture facts tests assert against.
const (
	// BukhariBook1Count is the number of narrations in the bukhari section 1 fixture.
	BukhariBook1Count = 7
	// BukhariBook2Count is the number of narrations in the bukhari section 2 fixture.
	BukhariBook2Count = 5
	// BukhariMissingNative is the bukhari narration absent from the Arabic edition.
	BukhariMissingNative = 4
)

type cdnGrade struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

type cdnHadith struct {
	HadithNumber float64    `json:"hadithnumber"`
	ArabicNumber float64    `json:"arabicnumber"`
	Text         string     `json:"text"`
	Grades       []cdnGrade `json:"grades"`
	Reference    struct {
		Book   int `json:"book"`
		Hadith int `json:"hadith"`
	} `json:"reference"`
}

func newCDNHadith(n float64, text string, book, inBook int, grades ...cdnGrade) cdnHadith {
	h := cdnHadith{HadithNumber: n, ArabicNumber: n, Text: text, Grades: grades}
	if grades == nil {
		h.Grades = []cdnGrade{}
	}
	h.Reference.Book = book
	h.Reference.Hadith = inBook
	return h
}

func cdnDocument(name string, hadiths ...cdnHadith) string {
	doc := map[string]any{
		"metadata": map[string]any{"name": name},
		"hadiths":  hadiths,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// BukhariEnglishText is the primary text of fixture narration n.
func BukhariEnglishText(n int) string {
	return fmt.Sprintf("Narrated Companion %d: Allah's Messenger said about deeds number %d.", n, n)
}

// BukhariArabicText is the native text of fixture narration n.
func BukhariArabicText(n int) string {
	return fmt.Sprintf("حدثنا الراوي %d", n)
}

const cdnInfo = `{
  "bukhari": {
    "metadata": {
      "name": "Sahih al Bukhari",
      "sections": {"0": "", "1": "Revelation", "2": "Belief"},
      "section_details": {
        "0": {"hadithnumber_first": 0, "hadithnumber_last": 0, "arabicnumber_first": 0, "arabicnumber_last": 0},
        "1": {"hadithnumber_first": 1, "hadithnumber_last": 7, "arabicnumber_first": 1, "arabicnumber_last": 7},
        "2": {"hadithnumber_first": 8, "hadithnumber_last": 12, "arabicnumber_first": 8, "arabicnumber_last": 12}
      }
    },
    "hadiths": [{"hadithnumber": 1, "arabicnumber": 1, "grades": [], "reference": {"book": 1, "hadith": 1}}]
  },
  "tirmidhi": {
    "metadata": {
      "name": "Jami At Tirmidhi",
      "sections": {"1": "The Book on Purification"},
      "section_details": {"1": {"hadithnumber_first": 1, "hadithnumber_last": 3}}
    },
    "hadiths": []
  }
}`

// ServeCDN registers a small static CDN on u: info.json, bukhari sections 1
// and 2 in both editions, tirmidhi section 1 in English only, and bukhari
// single-hadith documents 1 to 7. The Arabic bukhari section 1 is
// deliberately sparse and out of order. Tirmidhi narrations 1 to 3 are
// ungraded, Hasan and Da'if; its fourth entry has a fractional number.
func ServeCDN(u *Upstream) {
	u.Handle("/info.min.json", 200, cdnInfo)

	var eng1, eng2, ara2 []cdnHadith
	for n := 1; n <= BukhariBook1Count; n++ {
		eng1 = append(eng1, newCDNHadith(float64(n), BukhariEnglishText(n), 1, n))
	}
	ara1 := []cdnHadith{
		newCDNHadith(2, BukhariArabicText(2), 1, 2),
		newCDNHadith(1, BukhariArabicText(1), 1, 1),
		newCDNHadith(3, BukhariArabicText(3), 1, 3),
		newCDNHadith(6, BukhariArabicText(6), 1, 6),
		newCDNHadith(5, BukhariArabicText(5), 1, 5),
		newCDNHadith(7, BukhariArabicText(7), 1, 7),
	}
	for n := 8; n < 8+BukhariBook2Count; n++ {
		eng2 = append(eng2, newCDNHadith(float64(n), BukhariEnglishText(n), 2, n-7))
		ara2 = append(ara2, newCDNHadith(float64(n), BukhariArabicText(n), 2, n-7))
	}

	u.Handle("/editions/eng-bukhari/sections/1.min.json", 200, cdnDocument("Sahih al Bukhari", eng1...))
	u.Handle("/editions/ara-bukhari/sections/1.min.json", 200, cdnDocument("صحيح البخاري", ara1...))
	u.Handle("/editions/eng-bukhari/sections/2.min.json", 200, cdnDocument("Sahih al Bukhari", eng2...))
	u.Handle("/editions/ara-bukhari/sections/2.min.json", 200, cdnDocument("صحيح البخاري", ara2...))

	for _, h := range eng1 {
		u.Handle(fmt.Sprintf("/editions/eng-bukhari/%d.min.json", int(h.HadithNumber)), 200, cdnDocument("Sahih al Bukhari", h))
	}
	for _, h := range ara1 {
		u.Handle(fmt.Sprintf("/editions/ara-bukhari/%d.min.json", int(h.HadithNumber)), 200, cdnDocument("صحيح البخاري", h))
	}

	u.Handle("/editions/eng-tirmidhi/sections/1.min.json", 200, cdnDocument("Jami At Tirmidhi",
		newCDNHadith(1, "Ibn 'Umar narrated: The Prophet said: No prayer is accepted without purification.", 1, 1),
		newCDNHadith(2, "Abu Hurairah reported: When a believer performs ablution...", 1, 2,
			cdnGrade{Name: "Al-Albani", Grade: "Hasan"}),
		newCDNHadith(3, "It was narrated that 'Ali said: The key to prayer is purification.", 1, 3,
			cdnGrade{Name: "Al-Albani", Grade: "Da'if"}),
		newCDNHadith(3.1, "A sub-numbered variant that has no canonical number.", 1, 3),
	))
}

// ServeSparseBukhariSection replaces bukhari section 1 in both editions with
// one that lacks narration missing, while info.json still claims 1 to 7.
func ServeSparseBukhariSection(u *Upstream, missing int) {
	var eng, ara []cdnHadith
	for n := 1; n <= BukhariBook1Count; n++ {
		if n == missing {
			continue
		}
		eng = append(eng, newCDNHadith(float64(n), BukhariEnglishText(n), 1, n))
		ara = append(ara, newCDNHadith(float64(n), BukhariArabicText(n), 1, n))
	}
	u.Handle("/editions/eng-bukhari/sections/1.min.json", 200, cdnDocument("Sahih al Bukhari", eng...))
	u.Handle("/editions/ara-bukhari/sections/1.min.json", 200, cdnDocument("صحيح البخاري", ara...))
}
