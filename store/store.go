package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TimeCanvasGo/models"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("record not found")
)

// Store 基于 gorm 的存储层，只提供时间线所需的几种查询
type Store struct {
	db *gorm.DB
}

// New 返回绑定到已有数据库句柄的 Store
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Transaction 在事务中执行 fn；在事务内再次调用时使用保存点
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// ListTimeBlockRows 查询 start_time 落在 [from, to] 内的时间块，按 start_time 升序
func (s *Store) ListTimeBlockRows(ctx context.Context, userID string, from, to time.Time) ([]models.Row, error) {
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).
		Model(&models.TimeBlock{}).
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, from.UTC(), to.UTC()).
		Order("start_time ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	return toRows(rows), nil
}

// ListOccupationRows 一次查询取回所有属于 blockIDs 的事务
func (s *Store) ListOccupationRows(ctx context.Context, userID string, blockIDs []string) ([]models.Row, error) {
	if len(blockIDs) == 0 {
		return []models.Row{}, nil
	}
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).
		Model(&models.Occupation{}).
		Where("user_id = ? AND time_block_id IN ?", userID, blockIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list occupations: %w", err)
	}
	return toRows(rows), nil
}

// FindActivityByName 按名称精确查找分类
func (s *Store) FindActivityByName(ctx context.Context, userID, name string) (models.Row, bool, error) {
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("user_id = ? AND name = ?", userID, name).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, fmt.Errorf("find activity: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return models.Row(rows[0]), true, nil
}

// FindUser 按 ID 查找用户
func (s *Store) FindUser(ctx context.Context, id string) (models.Row, bool, error) {
	row, err := s.findByID(ctx, &models.User{}, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	return row, true, nil
}

func (s *Store) InsertTimeBlock(ctx context.Context, row models.Row) (models.Row, error) {
	return s.insert(ctx, &models.TimeBlock{}, row)
}

func (s *Store) InsertOccupation(ctx context.Context, row models.Row) (models.Row, error) {
	return s.insert(ctx, &models.Occupation{}, row)
}

// InsertActivity 同名分类已存在时返回 ErrDuplicate
func (s *Store) InsertActivity(ctx context.Context, row models.Row) (models.Row, error) {
	return s.insert(ctx, &models.Activity{}, row)
}

func (s *Store) InsertUser(ctx context.Context, row models.Row) (models.Row, error) {
	return s.insert(ctx, &models.User{}, row)
}

// insert 写入一行后按 ID 读回
func (s *Store) insert(ctx context.Context, model interface{}, row models.Row) (models.Row, error) {
	id, ok := row[models.ColID].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("insert: %w: %s", models.ErrMissingField, models.ColID)
	}
	values := make(map[string]interface{}, len(row))
	for k, v := range row {
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		values[k] = v
	}
	if err := s.db.WithContext(ctx).Model(model).Create(values).Error; err != nil {
		return nil, fmt.Errorf("insert: %w", translate(err))
	}
	created, err := s.findByID(ctx, model, id)
	if err != nil {
		return nil, fmt.Errorf("insert: read back %s: %w", id, err)
	}
	return created, nil
}

func (s *Store) findByID(ctx context.Context, model interface{}, id string) (models.Row, error) {
	row := map[string]interface{}{}
	err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return models.Row(row), nil
}

func toRows(rows []map[string]interface{}) []models.Row {
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		out[i] = models.Row(r)
	}
	return out
}

// translate 将各驱动的唯一约束错误统一为 ErrDuplicate
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "SQLSTATE 23505") || // postgres
		strings.Contains(msg, "Error 1062") // mysql
}
