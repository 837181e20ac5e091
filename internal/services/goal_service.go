package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

// goalService handles savings goals.
type goalService struct {
	goals store.GoalStore
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(goals store.GoalStore) GoalServicer {
	return &goalService{goals: goals}
}

func (s *goalService) CreateGoal(ctx context.Context, actor models.Actor, in CreateGoalInput) (*models.Goal, error) {
	if !money.ValidAmount(in.Cost) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost must be positive with at most 8 integer and 2 fractional digits")
	}
	if !money.ValidBalance(in.ActualAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "actual_amount must be non-negative with at most 8 integer and 2 fractional digits")
	}
	if err := checkGoal(in.Cost, in.ActualAmount, in.Deadline); err != nil {
		return nil, err
	}

	ownerID := actor.UserID
	if actor.IsAdmin && in.UserID != "" {
		ownerID = in.UserID
	}

	goal := &models.Goal{
		UserID:       ownerID,
		Name:         strings.TrimSpace(in.Name),
		Cost:         in.Cost,
		Deadline:     in.Deadline,
		ActualAmount: in.ActualAmount,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context, actor models.Actor, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	var (
		goals []models.Goal
		total int64
		err   error
	)
	if actor.IsAdmin {
		goals, total, err = s.goals.GetAll(ctx, page)
	} else {
		goals, total, err = s.goals.ListByUser(ctx, actor.UserID, page)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(goals, page, total), nil
}

func (s *goalService) GetGoal(ctx context.Context, actor models.Actor, id string) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !actor.CanAccess(goal.UserID) {
		return nil, apperrors.ErrGoalNotFound
	}
	return goal, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, actor models.Actor, id string, upd store.GoalUpdate) (*models.Goal, error) {
	if upd.Cost != nil && !money.ValidAmount(*upd.Cost) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost must be positive with at most 8 integer and 2 fractional digits")
	}
	if upd.ActualAmount != nil && !money.ValidBalance(*upd.ActualAmount) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "actual_amount must be non-negative with at most 8 integer and 2 fractional digits")
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}

	current, err := s.GetGoal(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	cost, saved := current.Cost, current.ActualAmount
	if upd.Cost != nil {
		cost = *upd.Cost
	}
	if upd.ActualAmount != nil {
		saved = *upd.ActualAmount
	}
	if err := checkGoal(cost, saved, upd.Deadline); err != nil {
		return nil, err
	}

	goal, err := s.goals.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, actor models.Actor, id string) error {
	if _, err := s.GetGoal(ctx, actor, id); err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.ErrGoalNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// checkGoal rejects savings above the cost and deadlines that are not in the future.
func checkGoal(cost, saved decimal.Decimal, deadline *time.Time) error {
	if saved.GreaterThan(cost) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "actual_amount must not exceed cost")
	}
	if deadline != nil && !validator.IsFutureDate(*deadline, time.Now()) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "deadline must be in the future")
	}
	return nil
}
