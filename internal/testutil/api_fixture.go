package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Primary API fixture facts tests assert against.
const (
	// APIChaptersPerPage is how many chapters the paginated chapters endpoint returns per page.
	APIChaptersPerPage = 2
	// APIBukhariChapters is the number of sahih-bukhari chapters the fixture serves.
	APIBukhariChapters = 3
)

type apiChapter struct {
	ID             int    `json:"id"`
	ChapterNumber  string `json:"chapterNumber"`
	ChapterEnglish string `json:"chapterEnglish"`
	ChapterArabic  string `json:"chapterArabic"`
	BookSlug       string `json:"bookSlug"`
}

type apiHadith struct {
	ID              int    `json:"id"`
	HadithNumber    string `json:"hadithNumber"`
	EnglishNarrator string `json:"englishNarrator"`
	HadithEnglish   string `json:"hadithEnglish"`
	HadithArabic    string `json:"hadithArabic"`
	ChapterID       string `json:"chapterId"`
	BookSlug        string `json:"bookSlug"`
	Status          string `json:"status"`
	Chapter         struct {
		ChapterNumber  string `json:"chapterNumber"`
		ChapterEnglish string `json:"chapterEnglish"`
	} `json:"chapter"`
}

// APIHadithText is the English text the fixture serves for slug narration n.
func APIHadithText(slug string, n int) string {
	return fmt.Sprintf("Narrated Abu Hurairah: %s narration %d from the keyed API.", slug, n)
}

func apiFixtureData() (map[string][]apiChapter, map[string][]apiHadith) {
	chapters := map[string][]apiChapter{
		"sahih-bukhari": {
			{ID: 1, ChapterNumber: "1", ChapterEnglish: "Revelation", ChapterArabic: "كتاب بدء الوحى", BookSlug: "sahih-bukhari"},
			{ID: 2, ChapterNumber: "2", ChapterEnglish: "Belief", ChapterArabic: "كتاب الإيمان", BookSlug: "sahih-bukhari"},
			{ID: 3, ChapterNumber: "3", ChapterEnglish: "Knowledge", ChapterArabic: "كتاب العلم", BookSlug: "sahih-bukhari"},
		},
		"al-tirmidhi": {
			{ID: 10, ChapterNumber: "1", ChapterEnglish: "The Book on Purification", ChapterArabic: "كتاب الطهارة", BookSlug: "al-tirmidhi"},
		},
	}

	hadiths := make(map[string][]apiHadith)
	add := func(slug string, n, chapter int, status string) {
		h := apiHadith{
			ID:              len(hadiths[slug]) + 1,
			HadithNumber:    strconv.Itoa(n),
			EnglishNarrator: "Narrated Abu Hurairah:",
			HadithEnglish:   APIHadithText(slug, n),
			HadithArabic:    fmt.Sprintf("حديث %d", n),
			ChapterID:       strconv.Itoa(chapter),
			BookSlug:        slug,
			Status:          status,
		}
		h.Chapter.ChapterNumber = strconv.Itoa(chapter)
		h.Chapter.ChapterEnglish = chapters[slug][chapter-1].ChapterEnglish
		hadiths[slug] = append(hadiths[slug], h)
	}
	for n := 1; n <= 4; n++ {
		add("sahih-bukhari", n, 1, "Sahih")
	}
	add("sahih-bukhari", 5, 2, "Sahih")
	add("sahih-bukhari", 6, 2, "Sahih")
	add("sahih-bukhari", 7, 3, "Sahih")
	add("al-tirmidhi", 1, 1, "Sahih")
	add("al-tirmidhi", 2, 1, "Hasan")
	add("al-tirmidhi", 3, 1, "Da'eef")

	return chapters, hadiths
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ServePrimaryAPI registers a keyed hadith API on u under /api. Requests
// without apiKey set to key are rejected with 401. The sahih-bukhari chapters
// endpoint is paginated; al-tirmidhi returns a bare array.
func ServePrimaryAPI(u *Upstream, key string) {
	chapters, hadiths := apiFixtureData()

	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Query().Get("apiKey") != key {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Invalid API key."})
			return false
		}
		return true
	}

	u.HandleFunc("/api/sahih-bukhari/chapters", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		all := chapters["sahih-bukhari"]
		page := intParam(r, "page", 1)
		lastPage := (len(all) + APIChaptersPerPage - 1) / APIChaptersPerPage
		start := min((page-1)*APIChaptersPerPage, len(all))
		end := min(start+APIChaptersPerPage, len(all))
		writeJSON(w, http.StatusOK, map[string]any{
			"status": 200,
			"chapters": map[string]any{
				"current_page": page,
				"last_page":    lastPage,
				"per_page":     APIChaptersPerPage,
				"total":        len(all),
				"data":         all[start:end],
			},
		})
	})

	u.HandleFunc("/api/al-tirmidhi/chapters", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "chapters": chapters["al-tirmidhi"]})
	})

	u.HandleFunc("/api/hadiths", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		q := r.URL.Query()
		var matched []apiHadith
		for _, h := range hadiths[q.Get("book")] {
			if c := q.Get("chapter"); c != "" && h.ChapterID != c {
				continue
			}
			if s := q.Get("status"); s != "" && h.Status != s {
				continue
			}
			if n := q.Get("hadithNumber"); n != "" && h.HadithNumber != n {
				continue
			}
			matched = append(matched, h)
		}
		if len(matched) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Hadiths not found."})
			return
		}

		perPage := intParam(r, "paginate", 25)
		page := intParam(r, "page", 1)
		start := min((page-1)*perPage, len(matched))
		end := min(start+perPage, len(matched))
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  200,
			"message": "Hadiths has been found.",
			"hadiths": map[string]any{
				"current_page": page,
				"last_page":    (len(matched) + perPage - 1) / perPage,
				"per_page":     perPage,
				"total":        len(matched),
				"data":         matched[start:end],
			},
		})
	})
}
