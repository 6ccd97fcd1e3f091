package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
)

// DateLayout 日期参数格式
const DateLayout = "2006-01-02"

const defaultLoadError = "Failed to load time blocks."

// DayStore Day Loader 依赖的两种查询
type DayStore interface {
	ListTimeBlockRows(ctx context.Context, userID string, from, to time.Time) ([]models.Row, error)
	ListOccupationRows(ctx context.Context, userID string, blockIDs []string) ([]models.Row, error)
}

// DayBounds 返回 date 在 loc 时区下的 00:00:00.000 与 23:59:59.999
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	y, m, day := d.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, loc)
	end := time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end, nil
}

// DayLoader 加载某个用户某一天的时间块、事务与空档，对外暴露一致的快照。
// Reload 可并发调用；以最后开始的一次为准，失败时保留上一次成功的数据。
type DayLoader struct {
	store  DayStore
	userID string
	date   string
	loc    *time.Location

	mu        sync.Mutex
	snapshot  models.DaySnapshot
	inflight  int
	started   uint64
	committed uint64
}

type dayData struct {
	blocks      []models.TimeBlock
	occupations map[string][]models.Occupation
	gaps        []models.Gap
}

func NewDayLoader(store DayStore, userID, date string, loc *time.Location) (*DayLoader, error) {
	if store == nil {
		return nil, fmt.Errorf("day loader: store is nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if _, _, err := DayBounds(date, loc); err != nil {
		return nil, err
	}
	return &DayLoader{
		store:  store,
		userID: userID,
		date:   date,
		loc:    loc,
		snapshot: models.DaySnapshot{
			Date:                 date,
			Timezone:             loc.String(),
			Blocks:               []models.TimeBlock{},
			OccupationsByBlockID: map[string][]models.Occupation{},
			Gaps:                 []models.Gap{},
		},
	}, nil
}

// Reload 重新拉取当天数据，四项派生状态一次性提交。
// 结果已被更晚开始的调用取代时返回 nil，错误以快照为准。
func (l *DayLoader) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.started++
	seq := l.started
	l.inflight++
	l.snapshot.Error = ""
	l.mu.Unlock()

	data, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--

	if seq < l.committed {
		// 更晚开始的一次已经提交，本次结果连同错误一起丢弃
		return nil
	}
	l.committed = seq

	if err != nil {
		config.Logger.Errorw("加载时间块失败",
			"error", err,
			"userID", l.userID,
			"date", l.date,
		)
		msg := err.Error()
		if msg == "" {
			msg = defaultLoadError
		}
		l.snapshot.Error = msg
		return err
	}

	l.snapshot.Blocks = data.blocks
	l.snapshot.OccupationsByBlockID = data.occupations
	l.snapshot.Gaps = data.gaps
	l.snapshot.Error = ""
	return nil
}

func (l *DayLoader) fetch(ctx context.Context) (dayData, error) {
	from, to, err := DayBounds(l.date, l.loc)
	if err != nil {
		return dayData{}, err
	}

	blockRows, err := l.store.ListTimeBlockRows(ctx, l.userID, from, to)
	if err != nil {
		return dayData{}, err
	}
	blocks := make([]models.TimeBlock, 0, len(blockRows))
	for _, row := range blockRows {
		b, err := models.TimeBlockFromRow(row)
		if err != nil {
			return dayData{}, err
		}
		blocks = append(blocks, b)
	}

	if len(blocks) == 0 {
		return dayData{
			blocks:      blocks,
			occupations: map[string][]models.Occupation{},
			gaps:        []models.Gap{},
		}, nil
	}

	blockIDs := make([]string, len(blocks))
	for i, b := range blocks {
		blockIDs[i] = b.ID
	}

	occupationRows, err := l.store.ListOccupationRows(ctx, l.userID, blockIDs)
	if err != nil {
		return dayData{}, err
	}
	grouped := make(map[string][]models.Occupation)
	for _, row := range occupationRows {
		o, err := models.OccupationFromRow(row)
		if err != nil {
			return dayData{}, err
		}
		grouped[o.TimeBlockID] = append(grouped[o.TimeBlockID], o)
	}

	return dayData{
		blocks:      blocks,
		occupations: grouped,
		gaps:        ComputeGaps(blocks),
	}, nil
}

// Snapshot 返回当前快照的副本
func (l *DayLoader) Snapshot() models.DaySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.snapshot
	s.IsLoading = l.inflight > 0
	s.Blocks = append([]models.TimeBlock{}, l.snapshot.Blocks...)
	s.Gaps = append([]models.Gap{}, l.snapshot.Gaps...)
	s.OccupationsByBlockID = make(map[string][]models.Occupation, len(l.snapshot.OccupationsByBlockID))
	for id, occs := range l.snapshot.OccupationsByBlockID {
		s.OccupationsByBlockID[id] = append([]models.Occupation{}, occs...)
	}
	return s
}

// OccupationsFor 没有事务的时间块返回空切片
func (l *DayLoader) OccupationsFor(blockID string) []models.Occupation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Occupation{}, l.snapshot.OccupationsByBlockID[blockID]...)
}
