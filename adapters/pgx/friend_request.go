package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/linguachat/core"
)

const requestColumns = `id, sender_id, recipient_id, status, created_at, updated_at`

func scanFriendRequest(row pgx.Row) (*core.FriendRequest, error) {
	r := &core.FriendRequest{}
	var status string
	if err := row.Scan(&r.ID, &r.SenderID, &r.RecipientID, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = core.FriendRequestStatus(status)
	return r, nil
}

func (a *Adapter) CreateFriendRequest(ctx context.Context, r *core.FriendRequest) error {
	if r.Status == "" {
		r.Status = core.FriendRequestPending
	}

	q := `INSERT INTO public.friend_requests (sender_id, recipient_id, status) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return a.pool.QueryRow(ctx, q, r.SenderID, r.RecipientID, string(r.Status)).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (a *Adapter) GetFriendRequest(ctx context.Context, id string) (*core.FriendRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM public.friend_requests WHERE id = $1`

	r, err := scanFriendRequest(a.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrFriendRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

func (a *Adapter) FindPendingRequestBetween(ctx context.Context, x, y string) (*core.FriendRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM public.friend_requests
		WHERE status = 'pending'
		AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
		LIMIT 1`

	r, err := scanFriendRequest(a.pool.QueryRow(ctx, q, x, y))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrFriendRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

func (a *Adapter) ListFriendRequests(ctx context.Context, f core.FriendRequestFilter) ([]*core.FriendRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM public.friend_requests
		WHERE ($1::text = '' OR sender_id = $1)
		AND ($2::text = '' OR recipient_id = $2)
		AND ($3::text = '' OR status = $3)
		ORDER BY created_at, id`

	rows, err := a.pool.Query(ctx, q, f.SenderID, f.RecipientID, string(f.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*core.FriendRequest, 0)
	for rows.Next() {
		r, err := scanFriendRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
