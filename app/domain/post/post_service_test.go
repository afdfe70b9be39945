package post

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/query"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/ptr"
	"github.com/google/go-cmp/cmp"
)

type fakePostRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]Post
	views  map[uint]int64
	reads  int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{rows: map[string]Post{}, views: map[uint]int64{}}
}

func clonePost(p Post) Post {
	p.Tags = slices.Clone(p.Tags)
	p.LikedBy = slices.Clone(p.LikedBy)
	return p
}

func (r *fakePostRepo) Create(_ context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.rows[p.PublicID] = clonePost(*p)
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, p *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.PublicID] = clonePost(*p)
	return nil
}

func (r *fakePostRepo) DeleteByID(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, p := range r.rows {
		if p.ID == id {
			delete(r.rows, k)
		}
	}
	return nil
}

func (r *fakePostRepo) FindByPublicID(_ context.Context, publicID string) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	p, ok := r.rows[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := clonePost(p)
	out.ViewCount = r.views[p.ID]
	return &out, nil
}

func (r *fakePostRepo) FindByFilter(_ context.Context, filter PostFilter, _ *query.Pagination) ([]*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Post
	for _, p := range r.rows {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		c := clonePost(p)
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakePostRepo) Count(ctx context.Context, filter PostFilter) (int64, error) {
	items, _ := r.FindByFilter(ctx, filter, nil)
	return int64(len(items)), nil
}

func (r *fakePostRepo) IncrementViewCount(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id]++
	return nil
}

var (
	author = &user.User{PublicID: "usr_author", Role: user.RoleBuyer}
	reader = &user.User{PublicID: "usr_reader", Role: user.RoleBuyer}
	admin  = &user.User{PublicID: "usr_admin", Role: user.RoleAdmin}
)

func newTestService(t *testing.T) (*PostService, *fakePostRepo) {
	t.Helper()
	store, err := cache.NewMemoryStore(cache.DefaultMemoryStoreConfig())
	if err != nil {
		t.Fatal(err)
	}
	repo := newFakePostRepo()
	return NewService(repo, cache.NewCacheService(cache.Options{Store: store}), cache.NewLocalLocker()), repo
}

func createPost(t *testing.T, svc *PostService) *Post {
	t.Helper()
	p, err := svc.Create(context.Background(), author, PostInput{
		Title:   ptr.ToString(" Range after two winters "),
		Content: ptr.ToString("Lost about 6% so far."),
		Tags:    []string{"Battery", "battery ", "", "Winter"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestCreateNormalizesInput(t *testing.T) {
	svc, _ := newTestService(t)
	p := createPost(t, svc)
	if p.Title != "Range after two winters" || p.Category != CategoryGeneral {
		t.Errorf("unexpected post %+v", p)
	}
	if diff := cmp.Diff([]string{"battery", "winter"}, p.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newTestService(t)
	bad := Category("rumour")
	tests := []PostInput{
		{Title: ptr.ToString(""), Content: ptr.ToString("x")},
		{Title: ptr.ToString("x"), Content: ptr.ToString("x"), Category: &bad},
		{Title: ptr.ToString("x"), Content: ptr.ToString("x"), Tags: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}},
	}
	for i, input := range tests {
		if _, err := svc.Create(context.Background(), author, input); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("case %d: err = %v, want invalid argument", i, err)
		}
	}
}

func TestToggleLike(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createPost(t, svc)

	liked, err := svc.ToggleLike(ctx, reader, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if liked.LikeCount() != 1 || !liked.LikedByUser(reader.PublicID) {
		t.Fatalf("after like: %+v", liked.LikedBy)
	}
	cached, err := svc.FindByID(ctx, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if cached.LikeCount() != 1 {
		t.Errorf("FindByID LikeCount = %d, want 1", cached.LikeCount())
	}

	unliked, err := svc.ToggleLike(ctx, reader, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if unliked.LikeCount() != 0 {
		t.Errorf("after unlike: %+v", unliked.LikedBy)
	}
}

func TestConcurrentLikesAreAllKept(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createPost(t, svc)

	const readers = 12
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fan := &user.User{PublicID: fmt.Sprintf("usr_fan_%d", i), Role: user.RoleBuyer}
			if _, err := svc.ToggleLike(ctx, fan, p.PublicID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := svc.FindByID(ctx, p.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LikeCount() != readers {
		t.Errorf("LikeCount = %d, want %d", got.LikeCount(), readers)
	}
}

func TestRecordViewCountsEveryCall(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	p := createPost(t, svc)
	for i := 0; i < 3; i++ {
		if err := svc.RecordView(ctx, p.PublicID); err != nil {
			t.Fatal(err)
		}
	}
	if repo.views[p.ID] != 3 {
		t.Errorf("stored views = %d, want 3", repo.views[p.ID])
	}
}

func TestUpdateAndDeleteRequireAuthor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := createPost(t, svc)

	if _, err := svc.Update(ctx, reader, p.PublicID, PostInput{Title: ptr.ToString("hijack")}); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("update err = %v, want forbidden", err)
	}
	news := CategoryNews
	updated, err := svc.Update(ctx, admin, p.PublicID, PostInput{Category: &news})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Category != CategoryNews || updated.Title != p.Title {
		t.Errorf("unexpected update %+v", updated)
	}
	if err := svc.Delete(ctx, reader, p.PublicID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("delete err = %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, author, p.PublicID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FindByID(ctx, p.PublicID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("FindByID after delete err = %v", err)
	}
}

func TestFindByAuthor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	empty, err := svc.FindByAuthor(ctx, author.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("got %#v, want empty slice", empty)
	}
	createPost(t, svc)
	items, err := svc.FindByAuthor(ctx, author.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("len = %d, want 1", len(items))
	}
}
