package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aversa-dev/crewboard/internal/board"
)

// CreateBoard inserts a board with its columns in one transaction.
// Column IDs and positions are assigned here.
func (s *Store) CreateBoard(title string, columnTitles []string, terminal map[string]bool) (board.Board, error) {
	b := board.Board{ID: uuid.NewString(), Title: title}

	tx, err := s.db.Begin()
	if err != nil {
		return board.Board{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO boards (id, title) VALUES (?, ?)`, b.ID, b.Title); err != nil {
		return board.Board{}, fmt.Errorf("insert board: %w", err)
	}
	for i, ct := range columnTitles {
		col := board.Column{
			ID:       uuid.NewString(),
			BoardID:  b.ID,
			Title:    ct,
			Position: i,
			Terminal: terminal[ct],
		}
		if _, err := tx.Exec(
			`INSERT INTO columns (id, board_id, title, position, is_terminal) VALUES (?, ?, ?, ?, ?)`,
			col.ID, col.BoardID, col.Title, col.Position, boolToInt(col.Terminal),
		); err != nil {
			return board.Board{}, fmt.Errorf("insert column %q: %w", ct, err)
		}
		b.Columns = append(b.Columns, col)
	}

	if err := tx.Commit(); err != nil {
		return board.Board{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func (s *Store) GetBoard(id string) (board.Board, error) {
	var b board.Board
	err := s.db.QueryRow(`SELECT id, title FROM boards WHERE id = ?`, id).Scan(&b.ID, &b.Title)
	if err != nil {
		return board.Board{}, fmt.Errorf("get board %s: %w", id, err)
	}
	b.Columns, err = s.listColumns(id)
	if err != nil {
		return board.Board{}, err
	}
	return b, nil
}

func (s *Store) ListBoards() ([]board.Board, error) {
	rows, err := s.db.Query(`SELECT id, title FROM boards ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []board.Board
	for rows.Next() {
		var b board.Board
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range boards {
		boards[i].Columns, err = s.listColumns(boards[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return boards, nil
}

func (s *Store) listColumns(boardID string) ([]board.Column, error) {
	rows, err := s.db.Query(
		`SELECT id, board_id, title, position, is_terminal FROM columns WHERE board_id = ? ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()

	var cols []board.Column
	for rows.Next() {
		var c board.Column
		var terminal int
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Position, &terminal); err != nil {
			return nil, err
		}
		c.Terminal = terminal == 1
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// RenameColumn updates a column title. The title heuristic classifies
// on the new text immediately; the is_terminal flag is unaffected.
func (s *Store) RenameColumn(id, title string) error {
	_, err := s.db.Exec(`UPDATE columns SET title = ? WHERE id = ?`, title, id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
