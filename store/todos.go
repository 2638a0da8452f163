package store

import (
	"context"
	"fmt"
	"strings"
)

type (
	Todo struct {
		ID        int64
		Text      string
		Completed bool
		CreatedAt string
	}

	// TodoPatch is a partial update, nil fields are left untouched.
	TodoPatch struct {
		Text      *string
		Completed *bool
	}
)

// CreateTodo inserts a todo for userID and returns its id.
func (s *Store) CreateTodo(ctx context.Context, userID int64, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `insert into todos (user_id, text) values (?, ?)`, userID, text)
	if err != nil {
		return 0, fmt.Errorf("unable to create todo, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unable to read id of new todo, cause %w", err)
	}
	return id, nil
}

// ListTodos returns userID's todos, newest first.
func (s *Store) ListTodos(ctx context.Context, userID int64) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx, `select id, text, completed, created_at
		from todos
		where user_id = ?
		order by created_at desc, id desc`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list todos, cause %w", err)
	}
	defer rows.Close()
	var out []Todo
	for rows.Next() {
		var t Todo
		var completed int64
		err = rows.Scan(&t.ID, &t.Text, &completed, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to list todos, cause %w", err)
		}
		t.Completed = completed != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTodo applies a non-empty patch to the todo owned by userID.
// The boolean reports whether a row actually changed, a false means the
// todo does not exist or belongs to someone else, callers cannot tell
// which.
func (s *Store) UpdateTodo(ctx context.Context, userID int64, todoID int64, patch TodoPatch) (bool, error) {
	var sets []string
	var args []interface{}
	if patch.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *patch.Text)
	}
	if patch.Completed != nil {
		completed := 0
		if *patch.Completed {
			completed = 1
		}
		sets = append(sets, "completed = ?")
		args = append(args, completed)
	}
	if len(sets) == 0 {
		return false, fmt.Errorf("refusing to update todo %v with an empty patch", todoID)
	}
	args = append(args, todoID, userID)
	// only column assignments are joined here, every value still goes
	// through a placeholder
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`update todos set %v where id = ? and user_id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return false, fmt.Errorf("unable to update todo %v, cause %w", todoID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unable to count updated rows for todo %v, cause %w", todoID, err)
	}
	return n > 0, nil
}

// DeleteTodo removes the todo owned by userID, reporting whether a row
// was actually deleted.
func (s *Store) DeleteTodo(ctx context.Context, userID int64, todoID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from todos where id = ? and user_id = ?`, todoID, userID)
	if err != nil {
		return false, fmt.Errorf("unable to delete todo %v, cause %w", todoID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unable to count deleted rows for todo %v, cause %w", todoID, err)
	}
	return n > 0, nil
}
