package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aversa-dev/crewboard/internal/board"
	"github.com/aversa-dev/crewboard/internal/workload"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// CapacityHours reads the weekly capacity used by the workload
// aggregator, falling back to the default on bad data.
func (s *Store) CapacityHours() float64 {
	v, err := s.GetSetting("capacity_hours")
	if err != nil {
		return workload.DefaultCapacityHours
	}
	hours, err := strconv.ParseFloat(v, 64)
	if err != nil || hours <= 0 {
		return workload.DefaultCapacityHours
	}
	return hours
}

// Classifier builds the done-column classifier from settings: the
// title heuristic with configured keywords, or the explicit terminal
// flag when 'classifier' is set to "flag".
func (s *Store) Classifier() board.Classifier {
	mode, err := s.GetSetting("classifier")
	if err == nil && mode == "flag" {
		return board.FlagClassifier{}
	}
	kw, err := s.GetSetting("done_keywords")
	if err != nil || strings.TrimSpace(kw) == "" {
		return board.TitleClassifier{}
	}
	var keywords []string
	for _, k := range strings.Split(kw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return board.TitleClassifier{Keywords: keywords}
}
