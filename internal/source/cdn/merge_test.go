package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wire(n float64, text, grade string) wireHadith {
	w := wireHadith{HadithNumber: n, Text: text}
	if grade != "" {
		w.Grades = []wireGrade{{Name: "Al-Albani", Grade: grade}}
	}
	return w
}

func TestMergeEditionsPairsByNumber(t *testing.T) {
	primary := []wireHadith{wire(1, "one", ""), wire(2, "two", ""), wire(3, "three", "")}
	native := []wireHadith{wire(3, "ثلاثة", ""), wire(1, "واحد", "")}

	out, dropped := mergeEditions("bukhari", primary, native)
	require.Zero(t, dropped)
	require.Len(t, out, 3)

	assert.Equal(t, "واحد", out[0].TextNative)
	assert.Empty(t, out[1].TextNative)
	assert.Equal(t, "ثلاثة", out[2].TextNative)
}

func TestMergeEditionsNativeOnlyEntries(t *testing.T) {
	out, _ := mergeEditions("tirmidhi", nil, []wireHadith{wire(4, "نص", "Hasan")})
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Text)
	assert.Equal(t, "نص", out[0].TextNative)
	assert.Equal(t, "Good", string(out[0].Grade))
}

func TestMergeEditionsDropsUnnumbered(t *testing.T) {
	out, dropped := mergeEditions("muslim", []wireHadith{wire(0, "zero", ""), wire(8.2, "sub", ""), wire(9, "nine", "")}, nil)
	assert.Equal(t, 2, dropped)
	require.Len(t, out, 1)
	assert.Equal(t, "Sahih Muslim 9", out[0].Reference)
}

func TestSpansSkipIntroduction(t *testing.T) {
	m := infoMetadata{
		Sections: map[string]string{"0": "", "2": "Belief", "1": "Revelation"},
		SectionDetails: map[string]sectionDetail{
			"1": {HadithFirst: 1, HadithLast: 7},
			"2": {HadithFirst: 8, HadithLast: 58},
		},
	}
	spans := m.spans()
	require.Len(t, spans, 2)
	assert.Equal(t, 1, spans[0].Section)
	assert.Equal(t, 51, spans[1].count())
	assert.Equal(t, 0, span{First: 5, Last: 2}.count())
}
