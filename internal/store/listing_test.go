package store

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(t *testing.T, s ListingStore) *Listing {
	t.Helper()
	now := time.Now().UTC()
	listing, err := s.Create(context.Background(), "Good games", "Stuff", decimal.NewFromInt(999), now, now.Add(24*time.Hour))
	require.NoError(t, err)
	return listing
}

func Test_ListingStore_ItemIDs_EmptyBeforeFirstReplace(t *testing.T) {
	// given
	s := NewListingStore()
	listing := newListing(t, s)

	// when
	ids, err := s.ItemIDs(context.Background(), listing.ID)

	// then
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func Test_ListingStore_ReplaceItems_FullReplace(t *testing.T) {
	// given
	s := NewListingStore()
	ctx := context.Background()
	listing := newListing(t, s)
	require.NoError(t, s.ReplaceItems(ctx, listing.ID, []int64{1, 2, 3}))

	// when
	require.NoError(t, s.ReplaceItems(ctx, listing.ID, []int64{3, 4}))
	ids, err := s.ItemIDs(ctx, listing.ID)

	// then
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids)
}

func Test_ListingStore_ReplaceItems_DeduplicatesAndSorts(t *testing.T) {
	// given
	s := NewListingStore()
	ctx := context.Background()
	listing := newListing(t, s)

	// when
	require.NoError(t, s.ReplaceItems(ctx, listing.ID, []int64{5, 2, 5, 1, 2}))
	ids, err := s.ItemIDs(ctx, listing.ID)

	// then
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5}, ids)
}

func Test_ListingStore_ReplaceItems_UnknownListing(t *testing.T) {
	// given
	s := NewListingStore()

	// when
	err := s.ReplaceItems(context.Background(), 42, []int64{1})

	// then
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func Test_ListingStore_ItemIDs_UnknownListing(t *testing.T) {
	// given
	s := NewListingStore()

	// when
	ids, err := s.ItemIDs(context.Background(), 42)

	// then
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	assert.Nil(t, ids)
}

func Test_ListingStore_Delete_RemovesAssociation(t *testing.T) {
	// given
	s := NewListingStore()
	ctx := context.Background()
	listing := newListing(t, s)
	require.NoError(t, s.ReplaceItems(ctx, listing.ID, []int64{1, 2}))

	// when
	require.NoError(t, s.DeleteByID(ctx, listing.ID))

	// then
	_, err := s.ItemIDs(ctx, listing.ID)
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func Test_ListingStore_Delete_TwiceYieldsNotFound(t *testing.T) {
	// given
	s := NewListingStore()
	ctx := context.Background()
	listing := newListing(t, s)

	// when
	first := s.DeleteByID(ctx, listing.ID)
	second := s.DeleteByID(ctx, listing.ID)

	// then
	require.NoError(t, first)
	assert.ErrorIs(t, second, apperrors.ErrListingNotFound)
}

func Test_ListingStore_Update_KeepsID(t *testing.T) {
	// given
	s := NewListingStore()
	ctx := context.Background()
	listing := newListing(t, s)
	start := time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	// when
	updated, err := s.Update(ctx, listing.ID, "October sale", "Everything must go", decimal.NewFromInt(1), start, end)

	// then
	require.NoError(t, err)
	assert.Equal(t, listing.ID, updated.ID)
	assert.Equal(t, "October sale", updated.Name)
	assert.True(t, updated.StartUTC.Equal(start))
	assert.True(t, updated.EndUTC.Equal(end))
}
