package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskhub/taskhub-be/internal/models"
)

// Board field constraints.
const (
	MaxBoardNameLength        = 100
	MaxBoardDescriptionLength = 500
)

// BoardServiceProvider defines the interface for board services.
type BoardServiceProvider interface {
	CreateBoard(name, description, ownerID string) (models.Board, error)
	GetBoardByID(id string) (models.Board, error)
	AddMemberToBoard(boardID, userID string) (models.Board, error)
	RemoveMemberFromBoard(boardID, userID string) (models.Board, error)
}

// BoardService provides business logic for board management. The owner is an
// implicit member of every board and never appears in the members set; the
// composite primary key on board_members backs the no-duplicates invariant at
// the store level.
type BoardService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewBoardService creates a new BoardService.
func NewBoardService(db *sql.DB, events EventServiceProvider) *BoardService {
	return &BoardService{db: db, events: events}
}

// CreateBoard creates a board owned by an existing user. Membership starts
// empty.
func (s *BoardService) CreateBoard(name, description, ownerID string) (models.Board, error) {
	if strings.TrimSpace(name) == "" {
		return models.Board{}, fmt.Errorf("board name is required: %w", ErrValidation)
	}
	if len(name) > MaxBoardNameLength {
		return models.Board{}, fmt.Errorf("board name exceeds %d characters: %w", MaxBoardNameLength, ErrValidation)
	}
	if len(description) > MaxBoardDescriptionLength {
		return models.Board{}, fmt.Errorf("board description exceeds %d characters: %w", MaxBoardDescriptionLength, ErrValidation)
	}

	var ownerExists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", ownerID).Scan(&ownerExists); err != nil {
		return models.Board{}, fmt.Errorf("verify board owner: %w", err)
	}
	if !ownerExists {
		return models.Board{}, fmt.Errorf("user %s: %w", ownerID, ErrNotFound)
	}

	now := time.Now().UTC()
	board := models.Board{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Members:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stmt, err := s.db.Prepare("INSERT INTO boards(id, name, description, owner_id, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Board{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(board.ID, board.Name, board.Description, board.OwnerID, board.CreatedAt, board.UpdatedAt); err != nil {
		return models.Board{}, fmt.Errorf("create board: %w", err)
	}

	if err := populateBoard(s.db, &board); err != nil {
		return models.Board{}, err
	}
	s.record("board.created", fmt.Sprintf("board %q created", board.Name), board.ID)
	return board, nil
}

// GetBoardByID retrieves a board with its owner and members resolved.
func (s *BoardService) GetBoardByID(id string) (models.Board, error) {
	var board models.Board
	var description sql.NullString
	row := s.db.QueryRow("SELECT id, name, description, owner_id, created_at, updated_at FROM boards WHERE id = ?", id)
	err := row.Scan(&board.ID, &board.Name, &description, &board.OwnerID, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Board{}, fmt.Errorf("board %s: %w", id, ErrNotFound)
		}
		return models.Board{}, err
	}
	board.Description = description.String

	board.Members, err = s.memberIDs(id)
	if err != nil {
		return models.Board{}, err
	}
	if err := populateBoard(s.db, &board); err != nil {
		return models.Board{}, err
	}
	return board, nil
}

// AddMemberToBoard appends a user to a board's membership. Adding the owner
// or an existing member is a no-op; membership is compared by identifier.
func (s *BoardService) AddMemberToBoard(boardID, userID string) (models.Board, error) {
	board, err := s.GetBoardByID(boardID)
	if err != nil {
		return models.Board{}, err
	}

	var userExists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&userExists); err != nil {
		return models.Board{}, fmt.Errorf("verify member: %w", err)
	}
	if !userExists {
		return models.Board{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	if userID == board.OwnerID || contains(board.Members, userID) {
		return board, nil
	}

	// INSERT OR IGNORE keeps a concurrent duplicate add harmless.
	_, err = s.db.Exec("INSERT OR IGNORE INTO board_members(board_id, user_id, added_at) VALUES(?, ?, ?)",
		boardID, userID, time.Now().UTC())
	if err != nil {
		return models.Board{}, fmt.Errorf("add board member: %w", err)
	}

	s.record("board.member.added", fmt.Sprintf("user %s joined board %q", userID, board.Name), boardID)
	return s.GetBoardByID(boardID)
}

// RemoveMemberFromBoard removes a user from a board's membership. The owner
// can never be removed.
func (s *BoardService) RemoveMemberFromBoard(boardID, userID string) (models.Board, error) {
	board, err := s.GetBoardByID(boardID)
	if err != nil {
		return models.Board{}, err
	}

	if userID == board.OwnerID {
		return models.Board{}, fmt.Errorf("cannot remove board owner from members: %w", ErrPolicy)
	}

	_, err = s.db.Exec("DELETE FROM board_members WHERE board_id = ? AND user_id = ?", boardID, userID)
	if err != nil {
		return models.Board{}, fmt.Errorf("remove board member: %w", err)
	}

	s.record("board.member.removed", fmt.Sprintf("user %s left board %q", userID, board.Name), boardID)
	return s.GetBoardByID(boardID)
}

// memberIDs loads a board's membership in join order.
func (s *BoardService) memberIDs(boardID string) ([]string, error) {
	rows, err := s.db.Query("SELECT user_id FROM board_members WHERE board_id = ? ORDER BY added_at, user_id", boardID)
	if err != nil {
		return nil, fmt.Errorf("get board members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

// record writes to the activity log; failures are logged, never surfaced.
func (s *BoardService) record(eventType, message, subjectID string) {
	if err := s.events.Record(eventType, "info", message, &subjectID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
