package repository

import (
	"context"
	"sync"
	"testing"

	"library_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCopy(t *testing.T, repos *Repositories) (*domain.User, *domain.BookCopy) {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{Email: "reader@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, repos.Users.Create(ctx, u))
	b := &domain.Book{ISBN: "111", Title: "Dune", Authors: "Frank Herbert"}
	require.NoError(t, repos.Books.Create(ctx, b))
	bc := &domain.BookCopy{BookID: b.ID, BookType: "paperback", Availability: true}
	require.NoError(t, repos.Copies.Create(ctx, bc))
	return u, bc
}

func availability(t *testing.T, repos *Repositories, id uint) bool {
	t.Helper()
	bc, err := repos.Copies.Get(context.Background(), id)
	require.NoError(t, err)
	return bc.Availability
}

func TestReserveHoldsCopy(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u, bc := seedCopy(t, repos)

	first := &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusReserved}
	require.NoError(t, repos.Reservations.Reserve(ctx, first))
	assert.False(t, availability(t, repos, bc.ID))

	second := &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusBorrowed}
	assert.ErrorIs(t, repos.Reservations.Reserve(ctx, second), domain.ErrCopyUnavailable)
	assert.Zero(t, second.ID)

	missing := &domain.Reservation{UserID: u.ID, BookCopyID: 999, Status: domain.StatusReserved}
	assert.ErrorIs(t, repos.Reservations.Reserve(ctx, missing), domain.ErrCopyNotFound)

	// A historical record does not touch availability
	past := &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusReturned}
	require.NoError(t, repos.Reservations.Reserve(ctx, past))
	assert.False(t, availability(t, repos, bc.ID))
}

func TestConcurrentReserveOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u, bc := seedCopy(t, repos)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repos.Reservations.Reserve(ctx, &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusReserved})
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCopyUnavailable)
	}
	assert.Equal(t, 1, wins)
}

func TestChangeToReturnedReleasesCopy(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u, bc := seedCopy(t, repos)

	res := &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusBorrowed}
	require.NoError(t, repos.Reservations.Reserve(ctx, res))

	previous := *res
	res.Status = domain.StatusReturned
	require.NoError(t, repos.Reservations.Change(ctx, &previous, res))
	assert.True(t, availability(t, repos, bc.ID))

	stored, err := repos.Reservations.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Today().String(), stored.ReturnedDate.String())

	// Reopening it takes the copy again
	previous = *stored
	stored.Status = domain.StatusReserved
	require.NoError(t, repos.Reservations.Change(ctx, &previous, stored))
	assert.False(t, availability(t, repos, bc.ID))
}

func TestCancelReleasesHeldCopy(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u, bc := seedCopy(t, repos)

	res := &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusReserved}
	require.NoError(t, repos.Reservations.Reserve(ctx, res))
	require.NoError(t, repos.Reservations.Cancel(ctx, res.ID))
	assert.True(t, availability(t, repos, bc.ID))
	assert.ErrorIs(t, repos.Reservations.Cancel(ctx, res.ID), domain.ErrNotFound)
}

func TestForUserPaginates(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u, bc := seedCopy(t, repos)
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Reservations.Reserve(ctx, &domain.Reservation{UserID: u.ID, BookCopyID: bc.ID, Status: domain.StatusReturned}))
	}
	items, total, err := repos.Reservations.ForUser(ctx, u.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	items, total, err = repos.Reservations.ForUser(ctx, u.ID+1, 1, 2)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
