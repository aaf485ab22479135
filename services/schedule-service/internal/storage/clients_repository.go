package storage

import (
	"context"
	"strings"

	"github.com/agendaluz/agendaluz/libs/db"
	"github.com/agendaluz/agendaluz/services/schedule-service/internal/model"
)

// ClientRepository serves read-only client lookups for booking autofill.
type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// Search returns up to limit clients whose name contains the fragment,
// case-insensitively, ordered by name.
func (r *ClientRepository) Search(ctx context.Context, fragment string, limit int) ([]model.Client, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(phone, ''), vip
		FROM clients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, fragment, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.VIP); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
