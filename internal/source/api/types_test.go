package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
		err   bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"12a"`, 0, true},
		{`1.5`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f flexInt
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, int(f))
		})
	}
}

func TestChaptersResponseShapes(t *testing.T) {
	var bare chaptersResponse
	require.NoError(t, json.Unmarshal([]byte(`{"chapters":[{"chapterNumber":"1","chapterEnglish":"A"}]}`), &bare))
	items, last, err := bare.decode()
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, last)

	var paged chaptersResponse
	require.NoError(t, json.Unmarshal([]byte(`{"chapters":{"current_page":1,"last_page":"3","data":[{"chapterNumber":2}]}}`), &paged))
	items, last, err = paged.decode()
	require.NoError(t, err)
	assert.Equal(t, 2, int(items[0].ChapterNumber))
	assert.Equal(t, 3, last)

	var missing chaptersResponse
	require.NoError(t, json.Unmarshal([]byte(`{"status":200}`), &missing))
	_, _, err = missing.decode()
	assert.Error(t, err)
}

func TestBackoffDelayCapped(t *testing.T) {
	assert.Equal(t, time.Second, backoffDelay(time.Second, 1))
	assert.Equal(t, 4*time.Second, backoffDelay(time.Second, 3))
	assert.Equal(t, 10*time.Second, backoffDelay(time.Second, 8))
	assert.Zero(t, backoffDelay(0, 2))
}
