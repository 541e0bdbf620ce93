package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/linguachat/core"
)

// AcceptFriendRequest flips a pending request to accepted and inserts the
// friendship in both directions in one transaction. The status update is
// conditional, so of two concurrent accepts only one commits.
func (a *Adapter) AcceptFriendRequest(ctx context.Context, requestID string) (*core.FriendRequest, error) {
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin accept: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `UPDATE public.friend_requests SET status = 'accepted', updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns

	r, err := scanFriendRequest(tx.QueryRow(ctx, q, requestID))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update friend request: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM public.friend_requests WHERE id = $1)`, requestID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check friend request: %w", err)
		}
		if !exists {
			return nil, core.ErrFriendRequestNotFound
		}
		return nil, core.ErrFriendRequestAccepted
	}

	insert := `INSERT INTO public.friendships (user_id, friend_id) VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, r.SenderID, r.RecipientID); err != nil {
		return nil, fmt.Errorf("insert friendship: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE public.users SET updated_at = now() WHERE id IN ($1, $2)`, r.SenderID, r.RecipientID); err != nil {
		return nil, fmt.Errorf("touch users: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit accept: %w", err)
	}
	return r, nil
}
