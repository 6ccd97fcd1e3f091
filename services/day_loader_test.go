package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TimeCanvasGo/models"
	"TimeCanvasGo/services"
)

// fakeDayStore 记录查询参数并返回预设的行
type fakeDayStore struct {
	mu sync.Mutex

	blocks      []models.Row
	occupations []models.Row
	blocksErr   error
	occErr      error

	blockCalls int
	occCalls   int
	from, to   time.Time
	blockIDs   []string

	// 非空且返回值非 nil 时替代 blocks 与 blocksErr
	blocksFor func(call int) ([]models.Row, error)
}

func (f *fakeDayStore) ListTimeBlockRows(ctx context.Context, userID string, from, to time.Time) ([]models.Row, error) {
	f.mu.Lock()
	f.blockCalls++
	call := f.blockCalls
	f.from, f.to = from, to
	hook := f.blocksFor
	f.mu.Unlock()

	if hook != nil {
		if rows, err := hook(call); rows != nil || err != nil {
			return rows, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blocksErr != nil {
		return nil, f.blocksErr
	}
	return f.blocks, nil
}

func (f *fakeDayStore) ListOccupationRows(ctx context.Context, userID string, blockIDs []string) ([]models.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.occCalls++
	f.blockIDs = append([]string{}, blockIDs...)
	if f.occErr != nil {
		return nil, f.occErr
	}
	return f.occupations, nil
}

func blockRow(id string, start, end time.Duration) models.Row {
	return block(id, start, end).Row()
}

func occupationRow(id, blockID, task string) models.Row {
	return models.Occupation{
		ID:          id,
		UserID:      "u1",
		TimeBlockID: blockID,
		Task:        task,
		ActivityID:  "act",
	}.Row()
}

func newLoader(t *testing.T, store services.DayStore) *services.DayLoader {
	t.Helper()
	loader, err := services.NewDayLoader(store, "u1", "2026-02-27", time.UTC)
	if err != nil {
		t.Fatalf("NewDayLoader: %v", err)
	}
	return loader
}

func TestDayLoaderEmptyDaySkipsOccupations(t *testing.T) {
	store := &fakeDayStore{}
	loader := newLoader(t, store)

	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if store.occCalls != 0 {
		t.Errorf("occupation queries = %d, want 0", store.occCalls)
	}

	s := loader.Snapshot()
	if s.Blocks == nil || len(s.Blocks) != 0 {
		t.Errorf("Blocks = %#v, want empty", s.Blocks)
	}
	if s.Gaps == nil || len(s.Gaps) != 0 {
		t.Errorf("Gaps = %#v, want empty", s.Gaps)
	}
	if s.OccupationsByBlockID == nil || len(s.OccupationsByBlockID) != 0 {
		t.Errorf("OccupationsByBlockID = %#v, want empty", s.OccupationsByBlockID)
	}
	if s.IsLoading || s.Error != "" {
		t.Errorf("IsLoading = %v, Error = %q", s.IsLoading, s.Error)
	}
}

func TestDayLoaderGroupsOccupations(t *testing.T) {
	store := &fakeDayStore{
		blocks: []models.Row{
			blockRow("a", 9*time.Hour, 10*time.Hour),
			blockRow("b", 10*time.Hour, 11*time.Hour),
			blockRow("c", 12*time.Hour, 13*time.Hour),
		},
		occupations: []models.Row{
			occupationRow("o1", "a", "Research"),
			occupationRow("o2", "c", "Email"),
			occupationRow("o3", "a", "Notes"),
		},
	}
	loader := newLoader(t, store)

	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if store.occCalls != 1 {
		t.Errorf("occupation queries = %d, want 1", store.occCalls)
	}
	if want := []string{"a", "b", "c"}; len(store.blockIDs) != 3 || store.blockIDs[0] != want[0] || store.blockIDs[2] != want[2] {
		t.Errorf("blockIDs = %v, want %v", store.blockIDs, want)
	}

	s := loader.Snapshot()
	if len(s.Blocks) != 3 || s.Blocks[0].ID != "a" || s.Blocks[2].ID != "c" {
		t.Errorf("Blocks not in query order: %+v", s.Blocks)
	}
	a := s.OccupationsByBlockID["a"]
	if len(a) != 2 || a[0].Task != "Research" || a[1].Task != "Notes" {
		t.Errorf("occupations for a = %+v", a)
	}
	if _, ok := s.OccupationsByBlockID["b"]; ok {
		t.Errorf("block without occupations should have no key")
	}
	if got := loader.OccupationsFor("b"); got == nil || len(got) != 0 {
		t.Errorf("OccupationsFor(b) = %#v, want empty slice", got)
	}
	if len(s.Gaps) != 1 || s.Gaps[0].ID != "b__c" {
		t.Errorf("Gaps = %+v, want b__c", s.Gaps)
	}
}

func TestDayLoaderKeepsDataOnFailure(t *testing.T) {
	store := &fakeDayStore{
		blocks:      []models.Row{blockRow("a", 9*time.Hour, 10*time.Hour)},
		occupations: []models.Row{occupationRow("o1", "a", "Research")},
	}
	loader := newLoader(t, store)
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	store.mu.Lock()
	store.blocks = append(store.blocks, blockRow("b", 11*time.Hour, 12*time.Hour))
	store.occErr = errors.New("connection reset")
	store.mu.Unlock()

	if err := loader.Reload(context.Background()); err == nil {
		t.Fatal("Reload: want error")
	}
	s := loader.Snapshot()
	if s.Error == "" {
		t.Error("Error is empty after failed reload")
	}
	if len(s.Blocks) != 1 || s.Blocks[0].ID != "a" {
		t.Errorf("Blocks = %+v, want previous result", s.Blocks)
	}
	if len(s.OccupationsByBlockID["a"]) != 1 {
		t.Errorf("previous occupations lost: %+v", s.OccupationsByBlockID)
	}

	// 下一次成功加载清除错误
	store.mu.Lock()
	store.occErr = nil
	store.mu.Unlock()
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	s = loader.Snapshot()
	if s.Error != "" || len(s.Blocks) != 2 {
		t.Errorf("after recovery Error = %q, blocks = %d", s.Error, len(s.Blocks))
	}
}

func TestDayLoaderRejectsMalformedRow(t *testing.T) {
	store := &fakeDayStore{blocks: []models.Row{{"id": "a", "user_id": "u1"}}}
	loader := newLoader(t, store)

	err := loader.Reload(context.Background())
	if !errors.Is(err, models.ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
	if loader.Snapshot().Error == "" {
		t.Error("Error is empty")
	}
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	from, to, err := services.DayBounds("2026-03-08", loc)
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}

	if want := time.Date(2026, 3, 8, 0, 0, 0, 0, loc); !from.Equal(want) {
		t.Errorf("from = %v, want %v", from, want)
	}
	lastMilli := time.Date(2026, 3, 8, 23, 59, 59, int(999*time.Millisecond), loc)
	if !to.Equal(lastMilli) {
		t.Errorf("to = %v, want %v", to, lastMilli)
	}
	nextDay := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	if !to.Before(nextDay) {
		t.Errorf("to = %v should be before %v", to, nextDay)
	}

	if _, _, err := services.DayBounds("2026-02-30", loc); err == nil {
		t.Error("DayBounds accepted an invalid date")
	}
}

func TestDayLoaderQueriesDayBounds(t *testing.T) {
	store := &fakeDayStore{}
	loader := newLoader(t, store)
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	from, to, _ := services.DayBounds("2026-02-27", time.UTC)
	if !store.from.Equal(from) || !store.to.Equal(to) {
		t.Errorf("queried %v - %v, want %v - %v", store.from, store.to, from, to)
	}
}

func TestNewDayLoaderInvalidDate(t *testing.T) {
	if _, err := services.NewDayLoader(&fakeDayStore{}, "u1", "27/02/2026", time.UTC); err == nil {
		t.Error("NewDayLoader accepted an invalid date")
	}
}

func TestDayLoaderLastStartedReloadWins(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store := &fakeDayStore{
		blocks: []models.Row{blockRow("new", 9*time.Hour, 10*time.Hour)},
	}
	stale := []models.Row{blockRow("old", 9*time.Hour, 10*time.Hour)}
	// 第一次调用阻塞，放行后返回旧数据
	store.blocksFor = func(call int) ([]models.Row, error) {
		if call != 1 {
			return nil, nil
		}
		close(entered)
		<-release
		return stale, nil
	}
	loader := newLoader(t, store)

	done := make(chan error, 1)
	go func() { done <- loader.Reload(context.Background()) }()
	<-entered

	if !loader.Snapshot().IsLoading {
		t.Error("IsLoading = false while a reload is in flight")
	}
	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Reload: %v", err)
	}

	s := loader.Snapshot()
	if len(s.Blocks) != 1 || s.Blocks[0].ID != "new" {
		t.Errorf("Blocks = %+v, want result of the later reload", s.Blocks)
	}
	if s.IsLoading {
		t.Error("IsLoading = true after all reloads finished")
	}
}

func TestDayLoaderSupersededFailureReturnsNil(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store := &fakeDayStore{
		blocks: []models.Row{blockRow("new", 9*time.Hour, 10*time.Hour)},
	}
	// 第一次调用阻塞，放行后失败
	store.blocksFor = func(call int) ([]models.Row, error) {
		if call != 1 {
			return nil, nil
		}
		close(entered)
		<-release
		return nil, errors.New("connection reset")
	}
	loader := newLoader(t, store)

	done := make(chan error, 1)
	go func() { done <- loader.Reload(context.Background()) }()
	<-entered

	if err := loader.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("superseded Reload = %v, want nil", err)
	}

	s := loader.Snapshot()
	if s.Error != "" {
		t.Errorf("Error = %q, want empty", s.Error)
	}
	if len(s.Blocks) != 1 || s.Blocks[0].ID != "new" {
		t.Errorf("Blocks = %+v, want result of the later reload", s.Blocks)
	}
}

func TestLoaderRegistry(t *testing.T) {
	registry, err := services.NewLoaderRegistry(&fakeDayStore{}, 2)
	if err != nil {
		t.Fatalf("NewLoaderRegistry: %v", err)
	}

	a1, err := registry.Loader("u1", "2026-02-27", time.UTC)
	if err != nil {
		t.Fatalf("Loader: %v", err)
	}
	a2, _ := registry.Loader("u1", "2026-02-27", time.UTC)
	if a1 != a2 {
		t.Error("same key returned different loaders")
	}
	b, _ := registry.Loader("u2", "2026-02-27", time.UTC)
	if a1 == b {
		t.Error("different users share a loader")
	}
	_, _ = registry.Loader("u3", "2026-02-27", time.UTC)
	if registry.Len() != 2 {
		t.Errorf("Len = %d, want 2", registry.Len())
	}

	if _, err := registry.Loader("u1", "not-a-date", time.UTC); err == nil {
		t.Error("Loader accepted an invalid date")
	}
	if _, err := services.NewLoaderRegistry(&fakeDayStore{}, 0); err == nil {
		t.Error("NewLoaderRegistry accepted size 0")
	}
}
