package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/linguachat/core"
)

// userColumns selects a full user row, friends aggregated from friendships
const userColumns = `u.id, u.email, u.password_hash, u.full_name, u.bio, u.profile_pic,
	u.native_language, u.learning_language, u.location, u.is_onboarded, u.created_at, u.updated_at,
	COALESCE((SELECT array_agg(f.friend_id ORDER BY f.created_at, f.friend_id)
		FROM public.friendships f WHERE f.user_id = u.id), '{}'::text[])`

func scanUser(row pgx.Row) (*core.User, error) {
	u := &core.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Bio, &u.ProfilePic,
		&u.NativeLanguage, &u.LearningLanguage, &u.Location, &u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt,
		&u.Friends)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (a *Adapter) CreateUser(ctx context.Context, user *core.User) error {
	query := `INSERT INTO public.users (email, password_hash, full_name, bio, profile_pic, native_language, learning_language, location, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`

	email := strings.ToLower(strings.TrimSpace(user.Email))
	err := a.pool.QueryRow(ctx, query, email, user.PasswordHash, user.FullName, user.Bio, user.ProfilePic,
		user.NativeLanguage, user.LearningLanguage, user.Location, user.IsOnboarded).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return err
	}

	user.Email = email
	if user.Friends == nil {
		user.Friends = []string{}
	}
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users u WHERE u.id = $1`

	user, err := scanUser(a.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	q := `SELECT ` + userColumns + ` FROM public.users u WHERE lower(u.email) = lower($1)`

	user, err := scanUser(a.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsersByIDs skips ids with no user, preserving the order of ids
func (a *Adapter) ListUsersByIDs(ctx context.Context, ids []string) ([]*core.User, error) {
	if len(ids) == 0 {
		return []*core.User{}, nil
	}

	q := `SELECT ` + userColumns + ` FROM public.users u WHERE u.id = ANY($1)`
	users, err := a.queryUsers(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*core.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]*core.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (a *Adapter) ListOnboardedUsers(ctx context.Context, excludeIDs []string) ([]*core.User, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	q := `SELECT ` + userColumns + ` FROM public.users u
		WHERE u.is_onboarded AND NOT (u.id = ANY($1))
		ORDER BY u.created_at, u.id`
	return a.queryUsers(ctx, q, excludeIDs)
}

func (a *Adapter) UpdateProfile(ctx context.Context, id string, p core.ProfileUpdate) (*core.User, error) {
	q := `UPDATE public.users SET full_name = $1, bio = $2, native_language = $3, learning_language = $4,
		location = $5, profile_pic = COALESCE(NULLIF($6, ''), profile_pic), is_onboarded = TRUE, updated_at = now()
		WHERE id = $7`

	tag, err := a.pool.Exec(ctx, q, p.FullName, p.Bio, p.NativeLanguage, p.LearningLanguage, p.Location, p.ProfilePic, id)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, core.ErrUserNotFound
	}
	return a.GetUserByID(ctx, id)
}

func (a *Adapter) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := a.pool.Exec(ctx, `UPDATE public.users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

func (a *Adapter) queryUsers(ctx context.Context, q string, args ...any) ([]*core.User, error) {
	rows, err := a.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*core.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
