package store

import (
	"sort"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
)

func goalModel(id uuid.UUID, p goals.Payload) models.Goal {
	m := models.Goal{
		ID:              id,
		UserID:          p.UserID,
		Title:           p.Title,
		Description:     p.Description,
		GoalType:        string(p.GoalType),
		Status:          string(p.Status),
		MetricType:      string(p.MetricType()),
		InitialValue:    p.InitialValue,
		TargetValue:     p.TargetValue,
		StartDate:       p.StartDate,
		TargetDate:      p.TargetDate,
		ProgressPercent: p.ProgressPercent,
		StatsKind:       string(p.Stats.Kind),
	}
	if m.Status == "" {
		m.Status = string(goals.StatusActive)
	}
	switch s := p.Metric.(type) {
	case goals.AmountMetric:
		mode := string(s.FinanceMode)
		currency := s.Currency
		m.FinanceMode = &mode
		m.Currency = &currency
	case goals.UnitMetric:
		if s.Unit != "" {
			unit := s.Unit
			m.Unit = &unit
		}
	}
	m.Milestones = milestoneModels(id, p.Milestones)
	return m
}

func milestoneModels(goalID uuid.UUID, ms []goals.Milestone) []models.Milestone {
	out := make([]models.Milestone, 0, len(ms))
	for i, m := range ms {
		out = append(out, models.Milestone{
			ID:            m.ID,
			GoalID:        goalID,
			Position:      i,
			Title:         m.Title,
			TargetPercent: m.TargetPercent,
			DueDate:       m.DueDate,
		})
	}
	return out
}

func goalFromModel(m models.Goal) goals.Goal {
	metric := goals.MetricType(m.MetricType)
	var settings goals.MetricSettings
	if metric == goals.MetricAmount {
		a := goals.AmountMetric{FinanceMode: goals.FinanceSave}
		if m.Currency != nil {
			a.Currency = *m.Currency
		}
		if m.FinanceMode != nil {
			a.FinanceMode = goals.FinanceMode(*m.FinanceMode)
		}
		settings = a
	} else {
		u := goals.UnitMetric{Metric: metric}
		if m.Unit != nil {
			u.Unit = *m.Unit
		}
		settings = u
	}

	sorted := append([]models.Milestone(nil), m.Milestones...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	milestones := make([]goals.Milestone, 0, len(sorted))
	for _, ms := range sorted {
		milestones = append(milestones, goals.Milestone{
			ID:            ms.ID,
			Title:         ms.Title,
			TargetPercent: ms.TargetPercent,
			DueDate:       ms.DueDate,
		})
	}

	stats := goals.Stats{Kind: goals.StatsKind(m.StatsKind), Percent: m.ProgressPercent}
	if stats.Kind == "" {
		stats = goals.DeriveStats(metric, m.ProgressPercent)
	}

	return goals.Goal{
		ID: m.ID,
		Payload: goals.Payload{
			UserID:          m.UserID,
			Title:           m.Title,
			Description:     m.Description,
			GoalType:        goals.GoalType(m.GoalType),
			Status:          goals.GoalStatus(m.Status),
			Metric:          settings,
			InitialValue:    m.InitialValue,
			TargetValue:     m.TargetValue,
			StartDate:       m.StartDate,
			TargetDate:      m.TargetDate,
			Milestones:      milestones,
			ProgressPercent: m.ProgressPercent,
			Stats:           stats,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
