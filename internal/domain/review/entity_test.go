package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview_RatingRange(t *testing.T) {
	for _, rating := range []int{1, 3, 5} {
		r, err := NewReview(1, 2, rating, "")
		require.NoError(t, err)
		assert.Equal(t, rating, r.Rating)
	}

	for _, rating := range []int{-1, 0, 6, 100} {
		_, err := NewReview(1, 2, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating=%d", rating)
	}
}

func TestReview_Edit(t *testing.T) {
	r, err := NewReview(1, 2, 3, "ok")
	require.NoError(t, err)

	text := "better on reread"
	require.NoError(t, r.Edit(nil, &text))
	assert.Equal(t, 3, r.Rating)
	assert.Equal(t, text, r.Text)

	rating := 5
	require.NoError(t, r.Edit(&rating, nil))
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, text, r.Text)
}

func TestReview_EditRejectsOutOfRange(t *testing.T) {
	r, err := NewReview(1, 2, 3, "ok")
	require.NoError(t, err)

	bad := 0
	assert.ErrorIs(t, r.Edit(&bad, nil), ErrInvalidRating)
	assert.Equal(t, 3, r.Rating)
}

func TestCheckAuthor(t *testing.T) {
	r := &Review{UserID: 9}

	assert.NoError(t, CheckAuthor(r, 9))
	assert.ErrorIs(t, CheckAuthor(r, 10), ErrNotAuthor)
}
