package book

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/event"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/rdb/rdbtest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	users   user.Repository
	books   book.Repository
	reviews review.Repository
	events  *recordingPublisher

	create *CreateBookUseCase
	update *UpdateBookUseCase
	remove *DeleteBookUseCase
	list   *ListBooksUseCase
	get    *GetBookUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := rdbtest.New(t)
	cfg := rdbtest.Config()

	f := &fixture{
		users:   rdb.NewUserRepository(db, cfg),
		books:   rdb.NewBookRepository(db, cfg),
		reviews: rdb.NewReviewRepository(db, cfg),
		events:  &recordingPublisher{},
	}
	svc := book.NewService(f.books)
	f.create = NewCreateBookUseCase(svc, f.users)
	f.update = NewUpdateBookUseCase(svc, f.users)
	f.remove = NewDeleteBookUseCase(rdb.NewTxManager(db), f.books, f.reviews, f.events)
	f.list = NewListBooksUseCase(svc, f.users)
	f.get = NewGetBookUseCase(svc, f.reviews, f.users)
	return f
}

func (f *fixture) newUser(t *testing.T, name string) user.Identity {
	t.Helper()
	u := user.NewUser(name, name+"@example.com", "hash")
	require.NoError(t, f.users.Create(context.Background(), u))
	return user.Identity{UserID: u.ID, Email: u.Email}
}

func (f *fixture) addReview(t *testing.T, bookID uint, reader user.Identity, rating int) {
	t.Helper()
	r, err := review.NewReview(bookID, reader.UserID, rating, "")
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(context.Background(), r))
}

func strPtr(s string) *string { return &s }

func TestCreateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.newUser(t, "ann")

	v, err := f.create.Execute(ctx, ann, book.Draft{Title: " Dune ", Author: "Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", v.Book.Title)
	assert.Equal(t, ann.UserID, v.Book.OwnerID)
	assert.Equal(t, "ann", v.AddedBy.Name)
	assert.Empty(t, v.Book.Description)
	assert.Empty(t, v.Book.Genre)
	assert.Nil(t, v.Book.Year)
	assert.Zero(t, v.Book.AverageRating)
	assert.Zero(t, v.Book.ReviewsCount)

	_, err = f.create.Execute(ctx, ann, book.Draft{Title: "Dune"})
	assert.ErrorIs(t, err, book.ErrAuthorRequired)
	_, err = f.create.Execute(ctx, ann, book.Draft{Author: "Herbert"})
	assert.ErrorIs(t, err, book.ErrTitleRequired)
}

func TestUpdateBook_OwnerOnlyAndAggregatePreserved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.newUser(t, "ann")
	bob := f.newUser(t, "bob")

	v, err := f.create.Execute(ctx, ann, book.Draft{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	require.NoError(t, f.books.UpdateRating(ctx, v.Book.ID, 4, 1))

	_, err = f.update.Execute(ctx, bob, v.Book.ID, book.Patch{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, book.ErrNotOwner)

	_, err = f.update.Execute(ctx, ann, 9999, book.Patch{Title: strPtr("x")})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	updated, err := f.update.Execute(ctx, ann, v.Book.ID, book.Patch{Title: strPtr("Dune Messiah")})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Book.Title)
	assert.Equal(t, ann.UserID, updated.Book.OwnerID)

	stored, err := f.books.FindByID(ctx, v.Book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", stored.Title)
	assert.Equal(t, "Herbert", stored.Author)
	assert.InDelta(t, 4.0, stored.AverageRating, 1e-9)
	assert.Equal(t, 1, stored.ReviewsCount)
}

func TestDeleteBook_CascadesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.newUser(t, "ann")
	bob := f.newUser(t, "bob")
	carl := f.newUser(t, "carl")

	dune, err := f.create.Execute(ctx, ann, book.Draft{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	emma, err := f.create.Execute(ctx, ann, book.Draft{Title: "Emma", Author: "Austen"})
	require.NoError(t, err)
	f.addReview(t, dune.Book.ID, bob, 5)
	f.addReview(t, dune.Book.ID, carl, 3)
	f.addReview(t, emma.Book.ID, bob, 4)

	assert.ErrorIs(t, f.remove.Execute(ctx, carl, dune.Book.ID), book.ErrNotOwner)
	assert.ErrorIs(t, f.remove.Execute(ctx, ann, 9999), book.ErrBookNotFound)

	require.NoError(t, f.remove.Execute(ctx, ann, dune.Book.ID))

	_, err = f.get.Execute(ctx, dune.Book.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	orphans, err := f.reviews.ListByBook(ctx, dune.Book.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	bobs, err := f.reviews.ListByUser(ctx, bob.UserID)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, emma.Book.ID, bobs[0].BookID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, event.TypeBookDeleted, f.events.events[0].Type)
	assert.Equal(t, int64(2), f.events.events[0].Payload.(event.BookDeleted).DeletedReviews)
}

func TestListBooks_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.newUser(t, "ann")
	bob := f.newUser(t, "bob")

	empty, err := f.list.Execute(ctx, ListBooksRequest{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, empty.Books)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Zero(t, empty.TotalBooks)

	for i := 0; i < 3; i++ {
		_, err := f.create.Execute(ctx, ann, book.Draft{Title: fmt.Sprintf("Book %d", i), Author: "A"})
		require.NoError(t, err)
	}

	page2, err := f.list.Execute(ctx, ListBooksRequest{Page: 2})
	require.NoError(t, err)
	assert.Empty(t, page2.Books)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, 1, page2.TotalPages)
	assert.Equal(t, int64(3), page2.TotalBooks)

	// 超大页码不能让偏移量溢出回到第一页
	huge, err := f.list.Execute(ctx, ListBooksRequest{Page: 1<<61 + 1})
	require.NoError(t, err)
	assert.Empty(t, huge.Books)
	assert.Equal(t, 1, huge.TotalPages)
	assert.Equal(t, int64(3), huge.TotalBooks)

	for i := 3; i < 6; i++ {
		_, err := f.create.Execute(ctx, bob, book.Draft{Title: fmt.Sprintf("Book %d", i), Author: "B"})
		require.NoError(t, err)
	}

	clamped, err := f.list.Execute(ctx, ListBooksRequest{Page: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
	assert.Equal(t, 2, clamped.TotalPages)
	require.Len(t, clamped.Books, book.PageSize)
	assert.Equal(t, "Book 5", clamped.Books[0].Book.Title)
	assert.Equal(t, "bob", clamped.Books[0].AddedBy.Name)

	last, err := f.list.Execute(ctx, ListBooksRequest{Page: 2})
	require.NoError(t, err)
	require.Len(t, last.Books, 1)
	assert.Equal(t, "Book 0", last.Books[0].Book.Title)

	mine, err := f.list.Execute(ctx, ListBooksRequest{Page: 1, AddedBy: ann.UserID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mine.TotalBooks)
	for _, v := range mine.Books {
		assert.Equal(t, ann.UserID, v.Book.OwnerID)
	}
}

// 列表返回存储值，详情返回读时计算值，两者可以短暂不一致
func TestListServesStoredAggregateWhileDetailComputesLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.newUser(t, "ann")
	bob := f.newUser(t, "bob")
	carl := f.newUser(t, "carl")

	v, err := f.create.Execute(ctx, ann, book.Draft{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	// 直接写评论表，绕过聚合引擎，模拟存储值尚未更新
	f.addReview(t, v.Book.ID, bob, 5)
	f.addReview(t, v.Book.ID, carl, 2)

	list, err := f.list.Execute(ctx, ListBooksRequest{Page: 1})
	require.NoError(t, err)
	require.Len(t, list.Books, 1)
	assert.Zero(t, list.Books[0].Book.AverageRating)
	assert.Zero(t, list.Books[0].Book.ReviewsCount)

	detail, err := f.get.Execute(ctx, v.Book.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, detail.Book.AverageRating, 1e-9)
	assert.Equal(t, 2, detail.Book.ReviewsCount)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, "carl", detail.Reviews[0].Author.Name)
	assert.Equal(t, "bob", detail.Reviews[1].Author.Name)
	assert.Equal(t, "ann", detail.AddedBy.Name)
}
