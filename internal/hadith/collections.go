package hadith

// seedCollections is the static reference data every listing starts from.
// Counts are enriched by sources at runtime but never replaced when set here.
var seedCollections = []Collection{
	{
		ID:                "bukhari",
		DisplayName:       "Sahih al-Bukhari",
		DisplayNameNative: "صحيح البخاري",
		CompilerName:      "Imam Muhammad ibn Ismail al-Bukhari",
		TotalNarrations:   7563,
		TotalBooks:        97,
		Description:       "The most widely accepted collection of authentic hadith, compiled over sixteen years.",
	},
	{
		ID:                "muslim",
		DisplayName:       "Sahih Muslim",
		DisplayNameNative: "صحيح مسلم",
		CompilerName:      "Imam Muslim ibn al-Hajjaj",
		TotalNarrations:   7470,
		TotalBooks:        56,
		Description:       "The second of the two Sahih collections, arranged by subject with chains grouped together.",
	},
	{
		ID:                "abudawud",
		DisplayName:       "Sunan Abi Dawud",
		DisplayNameNative: "سنن أبي داود",
		CompilerName:      "Imam Abu Dawud Sulayman ibn al-Ash'ath",
		TotalNarrations:   5274,
		TotalBooks:        43,
		Description:       "A collection focused on legal rulings, one of the six canonical books.",
	},
	{
		ID:                "tirmidhi",
		DisplayName:       "Jami` at-Tirmidhi",
		DisplayNameNative: "جامع الترمذي",
		CompilerName:      "Imam Abu Isa Muhammad at-Tirmidhi",
		TotalNarrations:   3956,
		TotalBooks:        49,
		Description:       "Known for grading each narration and recording the opinions of the jurists.",
	},
	{
		ID:                "nasai",
		DisplayName:       "Sunan an-Nasa'i",
		DisplayNameNative: "سنن النسائي",
		CompilerName:      "Imam Ahmad ibn Shu'ayb an-Nasa'i",
		TotalNarrations:   5758,
		TotalBooks:        51,
		Description:       "Regarded as having the fewest weak narrations after the two Sahihs.",
	},
	{
		ID:                "ibnmajah",
		DisplayName:       "Sunan Ibn Majah",
		DisplayNameNative: "سنن ابن ماجه",
		CompilerName:      "Imam Muhammad ibn Yazid Ibn Majah",
		Description:       "The sixth of the canonical collections.",
	},
	{
		ID:                "malik",
		DisplayName:       "Muwatta Malik",
		DisplayNameNative: "موطأ مالك",
		CompilerName:      "Imam Malik ibn Anas",
		Description:       "The earliest surviving collection, combining hadith with the practice of Madinah.",
	},
	{
		ID:                "nawawi",
		DisplayName:       "Forty Hadith of an-Nawawi",
		DisplayNameNative: "الأربعون النووية",
		CompilerName:      "Imam Yahya ibn Sharaf an-Nawawi",
		TotalNarrations:   42,
		TotalBooks:        1,
		Description:       "Forty-two foundational narrations selected as a summary of the religion.",
	},
}

// SeedCollections returns a copy of the static collection table.
func SeedCollections() []Collection {
	out := make([]Collection, len(seedCollections))
	copy(out, seedCollections)
	return out
}

// LookupCollection returns the seed entry for id.
func LookupCollection(id string) (Collection, bool) {
	for _, c := range seedCollections {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}
