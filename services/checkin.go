package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
	"TimeCanvasGo/store"
	"TimeCanvasGo/utils"
)

// ErrValidation 所有校验错误都满足 errors.Is(err, ErrValidation)
var ErrValidation = errors.New("validation failed")

// ValidationError 在任何写入之前发现的输入错误，Message 可直接展示给用户
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

const (
	msgInvalidTimes      = "Please provide valid start and end times."
	msgEndBeforeStart    = "End time must be after start time."
	msgNoOccupations     = "Add at least one occupation (task + activity)."
	msgFeelingOutOfRange = "Feeling must be between -2 and 2."
)

// datetime-local 输入框的格式
var localInputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// CheckInInput 已通过校验的打卡内容
type CheckInInput struct {
	Start       time.Time
	End         time.Time
	Feeling     int
	Occupations []models.OccupationInput
}

// CheckInResult 打卡写入的结果
type CheckInResult struct {
	Block       models.TimeBlock
	Occupations []models.Occupation
}

// ValidateCheckIn 解析并校验打卡请求，loc 用于解释不带时区的时间
func ValidateCheckIn(req models.CheckInRequest, loc *time.Location) (CheckInInput, error) {
	if loc == nil {
		loc = time.Local
	}
	start, errStart := parseCheckInTime(req.Start, loc)
	end, errEnd := parseCheckInTime(req.End, loc)
	if errStart != nil || errEnd != nil {
		return CheckInInput{}, &ValidationError{Message: msgInvalidTimes}
	}
	if !end.After(start) {
		return CheckInInput{}, &ValidationError{Message: msgEndBeforeStart}
	}
	if req.Feeling < models.FeelingMin || req.Feeling > models.FeelingMax {
		return CheckInInput{}, &ValidationError{Message: msgFeelingOutOfRange}
	}

	var rows []models.OccupationInput
	hasTask := false
	for _, row := range req.Occupations {
		row = row.Trimmed()
		if row.Task == "" && row.ActivityName == "" {
			continue
		}
		if row.Task != "" {
			hasTask = true
		}
		rows = append(rows, row)
	}
	if !hasTask {
		return CheckInInput{}, &ValidationError{Message: msgNoOccupations}
	}

	return CheckInInput{Start: start, End: end, Feeling: req.Feeling, Occupations: rows}, nil
}

func parseCheckInTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localInputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// CheckInService 校验并写入一次打卡：时间块、分类（按需创建）与事务
type CheckInService struct {
	store *store.Store
	users *UserService
}

func NewCheckInService(s *store.Store, users *UserService) *CheckInService {
	return &CheckInService{store: s, users: users}
}

// Submit 在一个事务中完成全部写入，任一步失败则整体放弃
func (s *CheckInService) Submit(ctx context.Context, userID, email string, req models.CheckInRequest, loc *time.Location) (*CheckInResult, error) {
	input, err := ValidateCheckIn(req, loc)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.EnsureUser(ctx, userID, email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &CheckInResult{Occupations: []models.Occupation{}}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		block := models.TimeBlock{
			ID:        utils.GenerateID(),
			UserID:    userID,
			StartTime: input.Start.UTC(),
			EndTime:   input.End.UTC(),
			Feeling:   input.Feeling,
			CreatedAt: now,
			UpdatedAt: now,
		}
		blockRow, err := tx.InsertTimeBlock(ctx, block.Row())
		if err != nil {
			return err
		}
		if result.Block, err = models.TimeBlockFromRow(blockRow); err != nil {
			return err
		}

		for _, row := range input.Occupations {
			if row.Task == "" {
				// 没有任务描述的行跳过
				continue
			}
			activityName := row.ActivityName
			if activityName == "" {
				activityName = models.DefaultActivityName
			}

			activityID, err := findOrCreateActivity(ctx, tx, userID, activityName, now)
			if err != nil {
				return err
			}

			occupation := models.Occupation{
				ID:          utils.GenerateID(),
				UserID:      userID,
				TimeBlockID: result.Block.ID,
				Task:        row.Task,
				ActivityID:  activityID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			occupationRow, err := tx.InsertOccupation(ctx, occupation.Row())
			if err != nil {
				return err
			}
			saved, err := models.OccupationFromRow(occupationRow)
			if err != nil {
				return err
			}
			result.Occupations = append(result.Occupations, saved)
		}
		return nil
	})
	if err != nil {
		config.Logger.Errorw("保存打卡失败", "error", err, "userID", userID)
		return nil, err
	}

	config.Logger.Infow("保存打卡",
		"userID", userID,
		"blockID", result.Block.ID,
		"occupations", len(result.Occupations),
	)
	return result, nil
}

// findOrCreateActivity 先查后插；插入放在保存点中，唯一约束冲突说明已被并发创建，改为读取已有记录
func findOrCreateActivity(ctx context.Context, tx *store.Store, userID, name string, now time.Time) (string, error) {
	row, found, err := tx.FindActivityByName(ctx, userID, name)
	if err != nil {
		return "", err
	}
	if found {
		activity, err := models.ActivityFromRow(row)
		if err != nil {
			return "", err
		}
		return activity.ID, nil
	}

	activity := models.Activity{
		ID:        utils.GenerateID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var created models.Row
	err = tx.Transaction(ctx, func(sp *store.Store) error {
		var err error
		created, err = sp.InsertActivity(ctx, activity.Row())
		return err
	})
	if errors.Is(err, store.ErrDuplicate) {
		config.Logger.Infow("分类已被并发创建，继续", "userID", userID, "activity", name)
		row, found, err = tx.FindActivityByName(ctx, userID, name)
		if err != nil {
			return "", err
		}
		if !found {
			return "", fmt.Errorf("activity %q: duplicate reported but row missing", name)
		}
		created = row
	} else if err != nil {
		return "", err
	}

	saved, err := models.ActivityFromRow(created)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}
