package postgres

import (
	"context"
	"errors"
	"time"

	"rezo-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type conversationRepo struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) domain.ConversationRepository {
	return &conversationRepo{db: db}
}

const conversationColumns = `id, participant_a, participant_b, created_at`

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	return scanConversation(r.db.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
}

// FindByPair matches regardless of which user was stored as participant A.
func (r *conversationRepo) FindByPair(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	pair := domain.NewPair(a, b)
	query := `SELECT ` + conversationColumns + ` FROM conversations
              WHERE LEAST(participant_a, participant_b) = $1
                AND GREATEST(participant_a, participant_b) = $2`
	return scanConversation(r.db.QueryRow(ctx, query, pair.Low, pair.High))
}

func (r *conversationRepo) Create(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	query := `INSERT INTO conversations (participant_a, participant_b)
              VALUES ($1, $2) RETURNING ` + conversationColumns
	conv, err := scanConversation(r.db.QueryRow(ctx, query, a, b))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConversationExists
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return conv, nil
}

// FindOrCreate relies on the unique index over the canonical pair. When a
// concurrent request wins the insert, ON CONFLICT waits for it to commit and
// the follow-up read returns that row.
func (r *conversationRepo) FindOrCreate(ctx context.Context, a, b int64) (*domain.Conversation, bool, error) {
	query := `INSERT INTO conversations (participant_a, participant_b)
              VALUES ($1, $2)
              ON CONFLICT ((LEAST(participant_a, participant_b)), (GREATEST(participant_a, participant_b))) DO NOTHING
              RETURNING ` + conversationColumns
	conv, err := scanConversation(r.db.QueryRow(ctx, query, a, b))
	if err == nil {
		return conv, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		if isForeignKeyViolation(err) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, err
	}

	conv, err = r.FindByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return conv, false, nil
}

// ListForUser returns every conversation of the user with the other
// participant and the latest message, if any.
func (r *conversationRepo) ListForUser(ctx context.Context, userID int64) ([]domain.ConversationDetail, error) {
	query := `
		SELECT
			c.id, c.created_at,
			u.id, u.role, u.first_name, u.last_name, u.is_active,
			m.id, m.sender_id, m.content, m.sent_at
		FROM conversations c
		JOIN users u
			ON u.id = CASE WHEN c.participant_a = $1 THEN c.participant_b ELSE c.participant_a END
		LEFT JOIN LATERAL (
			SELECT id, sender_id, content, sent_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY sent_at DESC, id DESC
			LIMIT 1
		) m ON TRUE
		WHERE c.participant_a = $1 OR c.participant_b = $1
		ORDER BY c.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []domain.ConversationDetail{}
	for rows.Next() {
		var (
			d        domain.ConversationDetail
			other    domain.PublicUser
			msgID    *int64
			senderID *int64
			content  *string
			sentAt   *time.Time
		)
		if err := rows.Scan(
			&d.ID, &d.CreatedAt,
			&other.ID, &other.Role, &other.FirstName, &other.LastName, &other.IsActive,
			&msgID, &senderID, &content, &sentAt,
		); err != nil {
			return nil, err
		}
		d.OtherParticipant = &other
		if msgID != nil {
			d.LastMessage = &domain.Message{
				ID:             *msgID,
				ConversationID: d.ID,
				SenderID:       *senderID,
				Content:        *content,
				Timestamp:      sentAt.UTC(),
			}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListMessages returns the full history, oldest first.
func (r *conversationRepo) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	query := `SELECT id, conversation_id, sender_id, content, sent_at
              FROM messages WHERE conversation_id = $1
              ORDER BY sent_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Timestamp = m.Timestamp.UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *conversationRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	query := `INSERT INTO messages (conversation_id, sender_id, content, sent_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, msg.ConversationID, msg.SenderID, msg.Content, msg.Timestamp).Scan(&msg.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
