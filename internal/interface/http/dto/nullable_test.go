package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBookRequest_YearPresence(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		want    *int
	}{
		{"absent", `{"title":"x"}`, false, nil},
		{"null clears", `{"year":null}`, true, nil},
		{"value", `{"year":1965}`, true, func() *int { v := 1965; return &v }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateBookRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			patch := req.ToPatch()
			assert.Equal(t, tt.wantSet, patch.YearSet)
			assert.Equal(t, tt.want, patch.Year)
		})
	}

	var req UpdateBookRequest
	assert.Error(t, json.Unmarshal([]byte(`{"year":"soon"}`), &req))
}

func TestCreateBookRequest_IgnoresAggregateFields(t *testing.T) {
	var req CreateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","author":"Herbert","averageRating":5,"reviewsCount":99}`), &req))
	d := req.ToDraft()
	assert.Equal(t, "Dune", d.Title)
	assert.Nil(t, d.Year)
}
