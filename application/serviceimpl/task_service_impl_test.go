package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/pkg/apperror"
	"todo-api/pkg/testutil"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

func newTaskService() (*TaskServiceImpl, *testutil.TaskRepo, *testutil.RecordingPublisher) {
	repo := testutil.NewTaskRepo()
	pub := &testutil.RecordingPublisher{}
	return NewTaskService(repo, pub).(*TaskServiceImpl), repo, pub
}

func todo(title, due string, priority int) *dto.TodoRequest {
	return &dto.TodoRequest{Title: title, DueDate: due, Priority: &priority}
}

func strPtr(s string) *string { return &s }

func firstPage(size int) models.PageRequest {
	return models.PageRequest{Index: 0, Size: size}
}

func TestBuyMilkScenario(t *testing.T) {
	svc, _, pub := newTaskService()
	ctx := context.Background()

	req := todo("Buy milk", "2024-01-10", 3)
	req.Completed = true
	created, err := svc.Create(ctx, req, alice)
	require.NoError(t, err)
	assert.False(t, created.Completed, "new tasks always start incomplete")

	page, err := svc.Search(ctx, alice, "MILK", firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)

	page, err = svc.Search(ctx, bob, "milk", firstPage(10))
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.Update(ctx, created.ID, todo("Buy oat milk", "2024-01-11", 4), bob)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	done := todo("Buy milk", "2024-01-10", 3)
	done.Completed = true
	updated, err := svc.Update(ctx, created.ID, done, alice)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	page, err = svc.ByCompletion(ctx, alice, true, firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	require.NoError(t, svc.Delete(ctx, created.ID, alice))
	_, err = svc.Get(ctx, created.ID, alice)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var types []ports.TaskEventType
	for _, e := range pub.Events() {
		types = append(types, e.Type)
		assert.Equal(t, alice, e.OwnerID)
	}
	assert.Equal(t, []ports.TaskEventType{ports.TaskCreated, ports.TaskUpdated, ports.TaskDeleted}, types)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, repo, _ := newTaskService()
	ctx := context.Background()

	mine, err := svc.Create(ctx, todo("mine", "2024-02-01", 1), alice)
	require.NoError(t, err)

	_, err = svc.Get(ctx, mine.ID, bob)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = svc.Delete(ctx, mine.ID, bob)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, 1, repo.Len())

	_, err = svc.Update(ctx, mine.ID, todo("hijacked", "2024-02-01", 1), bob)
	require.Error(t, err)
	got, err := svc.Get(ctx, mine.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
	assert.Equal(t, alice, got.UserID)

	// foreign and missing ids are indistinguishable
	_, foreign := svc.Get(ctx, mine.ID, bob)
	_, missing := svc.Get(ctx, 999, bob)
	assert.Equal(t, apperror.KindOf(foreign), apperror.KindOf(missing))

	listing, err := svc.ListForOwner(ctx, bob, firstPage(10))
	require.NoError(t, err)
	assert.Zero(t, listing.TotalElements)
}

func TestPaginationCoversEveryTaskOnce(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := svc.Create(ctx, todo(fmt.Sprintf("task %d", i), "2024-03-01", i%10+1), alice)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, todo("other", "2024-03-01", 1), bob)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for index := 0; ; index++ {
		page, err := svc.ListForOwner(ctx, alice, models.PageRequest{Index: index, Size: 5})
		require.NoError(t, err)
		assert.EqualValues(t, 23, page.TotalElements)
		assert.Equal(t, 5, page.TotalPages())
		if len(page.Items) == 0 {
			break
		}
		for _, task := range page.Items {
			assert.False(t, seen[task.ID], "task %d returned twice", task.ID)
			seen[task.ID] = true
		}
	}
	assert.Len(t, seen, 23)
}

func TestSortedBy(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	_, err := svc.Create(ctx, todo("c", "2024-05-03", 2), alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, todo("a", "2024-05-01", 9), alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, todo("b", "2024-05-02", 2), alice)
	require.NoError(t, err)

	titles := func(page models.Page[*models.Task]) []string {
		var out []string
		for _, task := range page.Items {
			out = append(out, task.Title)
		}
		return out
	}

	tests := []struct {
		sortBy string
		want   []string
	}{
		{"dueDate", []string{"a", "b", "c"}},
		{"DUEDATE", []string{"a", "b", "c"}},
		{"priority", []string{"c", "b", "a"}},
		{"Priority", []string{"c", "b", "a"}},
		{"title", []string{"c", "a", "b"}},
		{"", []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			page, err := svc.SortedBy(ctx, alice, tt.sortBy, firstPage(10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(page))
		})
	}
}

func TestSearchMatchesDescriptionAndEmptyKeyword(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	withDesc := todo("Groceries", "2024-01-10", 1)
	withDesc.Description = strPtr("eggs and Milk")
	_, err := svc.Create(ctx, withDesc, alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, todo("Laundry", "2024-01-10", 1), alice)
	require.NoError(t, err)

	page, err := svc.Search(ctx, alice, "milk", firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Groceries", page.Items[0].Title)

	page, err = svc.Search(ctx, alice, "", firstPage(10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestByDueDate(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	_, err := svc.Create(ctx, todo("x", "2024-01-10", 1), alice)
	require.NoError(t, err)
	_, err = svc.Create(ctx, todo("y", "2024-01-11", 1), alice)
	require.NoError(t, err)

	due, err := (&dto.TodoRequest{DueDate: "2024-01-11"}).ParsedDueDate()
	require.NoError(t, err)

	page, err := svc.ByDueDate(ctx, alice, due, firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "y", page.Items[0].Title)
}

func TestInvalidPageRequest(t *testing.T) {
	svc, _, _ := newTaskService()

	_, err := svc.ListForOwner(context.Background(), alice, models.PageRequest{Index: -1, Size: 0})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 2)
}

func TestPageIndexWhoseOffsetOverflowsIsRejected(t *testing.T) {
	svc, repo, _ := newTaskService()
	ctx := context.Background()
	_, err := svc.Create(ctx, todo("a", "2024-01-10", 1), alice)
	require.NoError(t, err)

	_, err = svc.ListForOwner(ctx, alice, models.PageRequest{Index: math.MaxInt/100 + 1, Size: 100})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, []string{fmt.Sprintf("pageNo: must be at most %d", math.MaxInt/100)}, appErr.Fields)

	page, err := svc.ListForOwner(ctx, alice, models.PageRequest{Index: math.MaxInt / 100, Size: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "a far page is empty, never page 0")
	assert.Equal(t, 1, repo.Len())
}

func TestStoreFailuresBecomeServiceErrors(t *testing.T) {
	svc, repo, _ := newTaskService()
	ctx := context.Background()

	repo.ListErr = errors.New("db down")
	_, err := svc.Search(ctx, alice, "x", firstPage(10))
	assert.Equal(t, apperror.KindService, apperror.KindOf(err))

	repo.SaveErr = errors.New("db down")
	_, err = svc.Create(ctx, todo("x", "2024-01-10", 1), alice)
	assert.Equal(t, apperror.KindService, apperror.KindOf(err))

	repo.SaveErr = fmt.Errorf("insert: %w", repositories.ErrConflict)
	_, err = svc.Create(ctx, todo("x", "2024-01-10", 1), alice)
	assert.Equal(t, apperror.KindAlreadyExists, apperror.KindOf(err))
}

func TestDeleteReferencedTask(t *testing.T) {
	svc, repo, pub := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, todo("x", "2024-01-10", 1), alice)
	require.NoError(t, err)

	repo.DeleteErr = fmt.Errorf("delete: %w", repositories.ErrReferenced)
	err = svc.Delete(ctx, task.ID, alice)
	assert.Equal(t, apperror.KindIllegalAction, apperror.KindOf(err))
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, pub.Events(), 1, "only the create event is published")
}

func TestUpdateAndDeleteRunInTransaction(t *testing.T) {
	svc, repo, _ := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, todo("x", "2024-01-10", 1), alice)
	require.NoError(t, err)

	_, err = svc.Update(ctx, task.ID, todo("y", "2024-01-10", 2), alice)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, task.ID, alice))

	assert.Equal(t, 2, repo.Transactions)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, _, pub := newTaskService()
	pub.Err = errors.New("nats unavailable")

	_, err := svc.Create(context.Background(), todo("x", "2024-01-10", 1), alice)
	assert.NoError(t, err)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	req := todo("x", "2024-01-10", 1)
	req.Description = strPtr("old")
	task, err := svc.Create(ctx, req, alice)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, todo("y", "2024-02-20", 5), alice)
	require.NoError(t, err)
	assert.Equal(t, "y", updated.Title)
	assert.Nil(t, updated.Description)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, "2024-02-20", updated.DueDate.Format(models.DateLayout))
	assert.Equal(t, alice, updated.UserID)
}
