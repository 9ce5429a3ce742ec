// ABOUTME: Metric definition registry operations on the Store.
// ABOUTME: Upsert, delete, toggle, reorder, and lookups by id, id prefix, or slug.
package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/frame/internal/models"
)

// UpsertMetric updates the metric whose id matches in.ID, or creates a new one.
// On update, empty Name/Type/GoalType and nil pointers keep the stored value;
// GoalValue always overwrites. The slug is regenerated from the resulting name.
func (s *Store) UpsertMetric(in models.MetricInput) (models.MetricDefinition, error) {
	var out models.MetricDefinition
	err := s.mutate("upsert metric", func(now time.Time) (*models.Changeset, error) {
		m, exists := s.metrics[in.ID]
		if !exists || in.ID == "" {
			m = s.newMetricLocked(in, now)
		} else {
			applyMetricInput(&m, in)
		}
		m.Slug = models.Slugify(m.Name)
		m.UpdatedAt = now
		if m.Type == models.MetricBoolean {
			m.Unit = ""
		}

		if err := m.Validate(); err != nil {
			return nil, err
		}
		for id, other := range s.metrics {
			if id != m.ID && other.Slug == m.Slug {
				return nil, fmt.Errorf("%w: %q is already used by %q", models.ErrDuplicateSlug, m.Slug, other.Name)
			}
		}

		out = m
		return &models.Changeset{Metrics: []models.MetricDefinition{m}}, nil
	})
	if err != nil {
		return models.MetricDefinition{}, err
	}
	return out, nil
}

func (s *Store) newMetricLocked(in models.MetricInput, now time.Time) models.MetricDefinition {
	m := models.MetricDefinition{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		GoalType:  in.GoalType,
		GoalValue: in.GoalValue,
		IsActive:  true,
		CreatedAt: now,
	}
	if in.Unit != nil {
		m.Unit = *in.Unit
	}
	if in.Color != nil {
		m.Color = *in.Color
	}
	if m.GoalType == "" {
		m.GoalType = models.GoalAtLeast
		if m.Type == models.MetricBoolean {
			m.GoalType = models.GoalBooleanDaysPerWeek
		}
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.FrameScoreWeight != nil {
		m.FrameScoreWeight = *in.FrameScoreWeight
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	} else if len(s.metrics) > 0 {
		highest := math.MinInt
		for _, other := range s.metrics {
			if other.SortOrder > highest {
				highest = other.SortOrder
			}
		}
		m.SortOrder = highest + 1
	}
	return m
}

func applyMetricInput(m *models.MetricDefinition, in models.MetricInput) {
	if name := strings.TrimSpace(in.Name); name != "" {
		m.Name = name
	}
	if in.Type != "" {
		m.Type = in.Type
	}
	if in.Unit != nil {
		m.Unit = *in.Unit
	}
	if in.GoalType != "" {
		m.GoalType = in.GoalType
	}
	m.GoalValue = in.GoalValue
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	}
	if in.Color != nil {
		m.Color = *in.Color
	}
	if in.FrameScoreWeight != nil {
		m.FrameScoreWeight = *in.FrameScoreWeight
	}
}

// DeleteMetric removes a definition. Values logged under its slug are kept.
// Returns false when no metric has that id.
func (s *Store) DeleteMetric(id string) (bool, error) {
	found := false
	err := s.mutate("delete metric", func(time.Time) (*models.Changeset, error) {
		if _, ok := s.metrics[id]; !ok {
			return nil, nil
		}
		found = true
		return &models.Changeset{DeletedMetricIDs: []string{id}}, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// ToggleMetricActive flips IsActive and returns the new state.
// An unknown id returns false without notifying.
func (s *Store) ToggleMetricActive(id string) (bool, error) {
	active := false
	err := s.mutate("toggle metric", func(now time.Time) (*models.Changeset, error) {
		m, ok := s.metrics[id]
		if !ok {
			return nil, nil
		}
		m.IsActive = !m.IsActive
		m.UpdatedAt = now
		active = m.IsActive
		return &models.Changeset{Metrics: []models.MetricDefinition{m}}, nil
	})
	if err != nil {
		return false, err
	}
	return active, nil
}

// ReorderMetrics sets SortOrder to each id's position in orderedIDs.
// Unknown ids are skipped and unlisted metrics keep their order. Nobody is
// notified when no position changes.
func (s *Store) ReorderMetrics(orderedIDs []string) error {
	return s.mutate("reorder metrics", func(now time.Time) (*models.Changeset, error) {
		cs := &models.Changeset{}
		for pos, id := range orderedIDs {
			m, ok := s.metrics[id]
			if !ok || m.SortOrder == pos {
				continue
			}
			m.SortOrder = pos
			m.UpdatedAt = now
			cs.Metrics = append(cs.Metrics, m)
		}
		if len(cs.Metrics) == 0 {
			return nil, nil
		}
		return cs, nil
	})
}

// Metrics returns all definitions by SortOrder.
func (s *Store) Metrics() []models.MetricDefinition {
	return s.Snapshot().Metrics
}

// ActiveMetrics returns the active definitions by SortOrder.
func (s *Store) ActiveMetrics() []models.MetricDefinition {
	var out []models.MetricDefinition
	for _, m := range s.Snapshot().Metrics {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

// MetricByID looks up a definition by its exact id.
func (s *Store) MetricByID(id string) (models.MetricDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.metrics[id]
	return m, ok
}

// MetricBySlug looks up a definition by slug, ignoring case.
func (s *Store) MetricBySlug(slug string) (models.MetricDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metricBySlugLocked(slug)
}

func (s *Store) metricBySlugLocked(slug string) (models.MetricDefinition, bool) {
	for _, m := range s.metrics {
		if strings.EqualFold(m.Slug, slug) {
			return m, true
		}
	}
	return models.MetricDefinition{}, false
}

// ResolveMetric finds a metric by exact id, slug, or unique id prefix.
func (s *Store) ResolveMetric(ref string) (models.MetricDefinition, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.MetricDefinition{}, fmt.Errorf("%w: empty metric reference", models.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.metrics[ref]; ok {
		return m, nil
	}
	if m, ok := s.metricBySlugLocked(ref); ok {
		return m, nil
	}

	var matches []models.MetricDefinition
	for id, m := range s.metrics {
		if strings.HasPrefix(id, strings.ToLower(ref)) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return models.MetricDefinition{}, fmt.Errorf("%w: metric %s", models.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.MetricDefinition{}, fmt.Errorf("%w %s: matches %d metrics", models.ErrAmbiguous, ref, len(matches))
	}
}
