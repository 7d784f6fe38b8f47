package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

func TestLikeEscaper(t *testing.T) {
	tests := map[string]string{
		"milk":   "milk",
		"100%":   `100\%`,
		"a_b":    `a\_b`,
		`back\s`: `back\\s`,
	}
	for in, want := range tests {
		assert.Equal(t, want, likeEscaper.Replace(in))
	}
}

// openTestDB connects to TEST_DATABASE_DSN and skips otherwise.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Exec("TRUNCATE tasks, users RESTART IDENTITY CASCADE").Error)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedUser(t *testing.T, repo repositories.UserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash", FirstName: "F", LastName: "L"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func date(s string) time.Time {
	d, _ := time.Parse(models.DateLayout, s)
	return d
}

func TestUserRepositoryPostgres(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, repo, "a@x.com")
	assert.NotZero(t, user.ID)

	err := repo.Create(ctx, &models.User{Email: "a@x.com", Password: "h", FirstName: "F", LastName: "L"})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	_, err = repo.GetByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestTaskRepositoryPostgres(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@x.com")
	bob := seedUser(t, users, "bob@x.com")

	desc := "2% fat Milk"
	for i, tc := range []struct {
		title    string
		due      string
		priority int
		desc     *string
	}{
		{"Buy milk", "2024-01-10", 3, nil},
		{"Groceries", "2024-01-09", 1, &desc},
		{"Laundry_day", "2024-01-11", 3, nil},
	} {
		task := &models.Task{Title: tc.title, DueDate: date(tc.due), Priority: tc.priority, Description: tc.desc, UserID: alice.ID}
		require.NoError(t, tasks.Save(ctx, task), "seed %d", i)
	}
	require.NoError(t, tasks.Save(ctx, &models.Task{Title: "Bob milk", DueDate: date("2024-01-10"), Priority: 1, UserID: bob.ID}))

	page := models.PageRequest{Index: 0, Size: 10}

	found, err := tasks.SearchByKeyword(ctx, alice.ID, "MILK", page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, found.TotalElements)

	found, err = tasks.SearchByKeyword(ctx, alice.ID, "_", page)
	require.NoError(t, err)
	require.Len(t, found.Items, 1, "underscore is matched literally")
	assert.Equal(t, "Laundry_day", found.Items[0].Title)

	found, err = tasks.SearchByKeyword(ctx, alice.ID, "2%", page)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)

	byDue, err := tasks.ListSortedByDueDate(ctx, alice.ID, page)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", byDue.Items[0].Title)

	byPriority, err := tasks.ListSortedByPriority(ctx, alice.ID, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Buy milk", "Laundry_day"}, titlesOf(byPriority))

	onDay, err := tasks.ListByDueDate(ctx, alice.ID, date("2024-01-10"), page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk"}, titlesOf(onDay))

	paged, err := tasks.ListByOwner(ctx, alice.ID, models.PageRequest{Index: 1, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.TotalElements)
	assert.Len(t, paged.Items, 1)

	err = tasks.WithTx(ctx, func(tx repositories.TaskRepository) error {
		task, err := tx.FindByID(ctx, byDue.Items[0].ID)
		if err != nil {
			return err
		}
		task.Completed = true
		task.UserID = bob.ID
		return tx.Save(ctx, task)
	})
	require.NoError(t, err)

	done, err := tasks.ListByCompletion(ctx, alice.ID, true, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries"}, titlesOf(done), "owner is never rewritten by Save")

	require.NoError(t, tasks.Delete(ctx, done.Items[0]))
	_, err = tasks.FindByID(ctx, done.Items[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = tasks.Save(ctx, &models.Task{Title: "orphan", DueDate: date("2024-01-10"), Priority: 1, UserID: 9999})
	assert.ErrorIs(t, err, repositories.ErrReferenced)
}

func titlesOf(page models.Page[*models.Task]) []string {
	out := make([]string, 0, len(page.Items))
	for _, task := range page.Items {
		out = append(out, task.Title)
	}
	return out
}
