package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aversa-dev/crewboard/internal/team"
)

func (s *Store) CreateMember(name string, role team.Role) (team.Member, error) {
	m := team.Member{ID: uuid.NewString(), Name: name, Role: role}
	_, err := s.db.Exec(
		`INSERT INTO members (id, name, role) VALUES (?, ?, ?)`,
		m.ID, m.Name, string(m.Role),
	)
	if err != nil {
		return team.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (s *Store) GetMember(id string) (team.Member, error) {
	var m team.Member
	var role string
	err := s.db.QueryRow(
		`SELECT id, name, role FROM members WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &role)
	if err != nil {
		return team.Member{}, fmt.Errorf("get member %s: %w", id, err)
	}
	m.Role = team.Role(role)
	return m, nil
}

// ListMembers returns all members ordered by creation, so the
// aggregator's stable tie-break has a fixed base order.
func (s *Store) ListMembers() ([]team.Member, error) {
	rows, err := s.db.Query(`SELECT id, name, role FROM members ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []team.Member
	for rows.Next() {
		var m team.Member
		var role string
		if err := rows.Scan(&m.ID, &m.Name, &role); err != nil {
			return nil, err
		}
		m.Role = team.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}
