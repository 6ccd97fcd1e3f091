package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Row 存储层返回的原始行，键为 snake_case 列名
type Row map[string]interface{}

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

// 列名
const (
	ColID          = "id"
	ColUserID      = "user_id"
	ColStartTime   = "start_time"
	ColEndTime     = "end_time"
	ColFeeling     = "feeling"
	ColTimeBlockID = "time_block_id"
	ColTask        = "task"
	ColActivityID  = "activity_id"
	ColName        = "name"
	ColEmail       = "email"
	ColCreatedAt   = "created_at"
	ColUpdatedAt   = "updated_at"
)

// sqlite 等驱动可能以文本返回时间
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// TimeBlockFromRow 将 time_blocks 行解码为 TimeBlock，不校验取值范围
func TimeBlockFromRow(row Row) (TimeBlock, error) {
	var (
		b   TimeBlock
		err error
	)
	if b.ID, err = row.text(ColID); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block: %w", err)
	}
	if b.UserID, err = row.text(ColUserID); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block %s: %w", b.ID, err)
	}
	if b.StartTime, err = row.instant(ColStartTime); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block %s: %w", b.ID, err)
	}
	if b.EndTime, err = row.instant(ColEndTime); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block %s: %w", b.ID, err)
	}
	if b.Feeling, err = row.integer(ColFeeling); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block %s: %w", b.ID, err)
	}
	if b.CreatedAt, b.UpdatedAt, err = row.timestamps(); err != nil {
		return TimeBlock{}, fmt.Errorf("decode time block %s: %w", b.ID, err)
	}
	return b, nil
}

// Row 写入时使用的行
func (b TimeBlock) Row() Row {
	return Row{
		ColID:        b.ID,
		ColUserID:    b.UserID,
		ColStartTime: b.StartTime,
		ColEndTime:   b.EndTime,
		ColFeeling:   b.Feeling,
		ColCreatedAt: b.CreatedAt,
		ColUpdatedAt: b.UpdatedAt,
	}
}

func OccupationFromRow(row Row) (Occupation, error) {
	var (
		o   Occupation
		err error
	)
	if o.ID, err = row.text(ColID); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation: %w", err)
	}
	if o.UserID, err = row.text(ColUserID); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation %s: %w", o.ID, err)
	}
	if o.TimeBlockID, err = row.text(ColTimeBlockID); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation %s: %w", o.ID, err)
	}
	if o.Task, err = row.text(ColTask); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation %s: %w", o.ID, err)
	}
	if o.ActivityID, err = row.text(ColActivityID); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation %s: %w", o.ID, err)
	}
	if o.CreatedAt, o.UpdatedAt, err = row.timestamps(); err != nil {
		return Occupation{}, fmt.Errorf("decode occupation %s: %w", o.ID, err)
	}
	return o, nil
}

func (o Occupation) Row() Row {
	return Row{
		ColID:          o.ID,
		ColUserID:      o.UserID,
		ColTimeBlockID: o.TimeBlockID,
		ColTask:        o.Task,
		ColActivityID:  o.ActivityID,
		ColCreatedAt:   o.CreatedAt,
		ColUpdatedAt:   o.UpdatedAt,
	}
}

func ActivityFromRow(row Row) (Activity, error) {
	var (
		a   Activity
		err error
	)
	if a.ID, err = row.text(ColID); err != nil {
		return Activity{}, fmt.Errorf("decode activity: %w", err)
	}
	if a.UserID, err = row.text(ColUserID); err != nil {
		return Activity{}, fmt.Errorf("decode activity %s: %w", a.ID, err)
	}
	if a.Name, err = row.text(ColName); err != nil {
		return Activity{}, fmt.Errorf("decode activity %s: %w", a.ID, err)
	}
	if a.CreatedAt, a.UpdatedAt, err = row.timestamps(); err != nil {
		return Activity{}, fmt.Errorf("decode activity %s: %w", a.ID, err)
	}
	return a, nil
}

func (a Activity) Row() Row {
	return Row{
		ColID:        a.ID,
		ColUserID:    a.UserID,
		ColName:      a.Name,
		ColCreatedAt: a.CreatedAt,
		ColUpdatedAt: a.UpdatedAt,
	}
}

func UserFromRow(row Row) (User, error) {
	var (
		u   User
		err error
	)
	if u.ID, err = row.text(ColID); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	if u.Email, err = row.text(ColEmail); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", u.ID, err)
	}
	if u.CreatedAt, err = row.optionalInstant(ColCreatedAt); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", u.ID, err)
	}
	return u, nil
}

func (u User) Row() Row {
	return Row{
		ColID:        u.ID,
		ColEmail:     u.Email,
		ColCreatedAt: u.CreatedAt,
	}
}

func (r Row) value(col string) (interface{}, error) {
	v, ok := r[col]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, col)
	}
	return v, nil
}

func (r Row) text(col string) (string, error) {
	v, err := r.value(col)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("%w: %s has type %T", ErrInvalidField, col, v)
}

func (r Row) integer(col string) (int, error) {
	v, err := r.value(col)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return integral(col, float64(n))
	case float64:
		return integral(col, n)
	case string:
		return atoi(col, n)
	case []byte:
		return atoi(col, string(n))
	}
	return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidField, col, v)
}

func integral(col string, f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s is not an integer: %v", ErrInvalidField, col, f)
	}
	return int(f), nil
}

func atoi(col, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, col, err)
	}
	return n, nil
}

func (r Row) instant(col string) (time.Time, error) {
	v, err := r.value(col)
	if err != nil {
		return time.Time{}, err
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrMissingField, col)
		}
		return *t, nil
	case string:
		return parseInstant(col, t)
	case []byte:
		return parseInstant(col, string(t))
	}
	return time.Time{}, fmt.Errorf("%w: %s has type %T", ErrInvalidField, col, v)
}

func (r Row) optionalInstant(col string) (time.Time, error) {
	if v, ok := r[col]; !ok || v == nil {
		return time.Time{}, nil
	}
	return r.instant(col)
}

func (r Row) timestamps() (created, updated time.Time, err error) {
	if created, err = r.optionalInstant(ColCreatedAt); err != nil {
		return
	}
	updated, err = r.optionalInstant(ColUpdatedAt)
	return
}

func parseInstant(col, s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s is not a timestamp: %q", ErrInvalidField, col, s)
}
