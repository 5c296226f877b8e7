package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fortivo-crm/internal/config"
	"fortivo-crm/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	s, err := store.New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Path:   t.TempDir(),
		Name:   "crm_test",
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Bootstrap(ctx))
	return NewRepository(s)
}

func seed(t *testing.T, r *Repository, in ClientInput) *Client {
	t.Helper()
	in.Normalize()
	c, err := r.Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created := seed(t, r, ClientInput{
		Name:         "Ada Lovelace",
		Email:        "ada@x.io",
		Phone:        "555-0100",
		FollowUpDate: "2026-09-01",
		Notes:        "met at conference",
	})
	require.NotZero(t, created.ID)
	require.Equal(t, DefaultStatus, created.Status)

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
	require.NotNil(t, got.FollowUpDate)
	require.Equal(t, "2026-09-01", *got.FollowUpDate)
}

func TestCreateStoresEmptyFollowUpAsNull(t *testing.T) {
	r := newTestRepo(t)

	c := seed(t, r, ClientInput{Name: "Bo", Email: "bo@x.io"})
	require.Nil(t, c.FollowUpDate)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Get(context.Background(), 9999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	c := seed(t, r, ClientInput{Name: "Ada", Email: "ada@x.io"})

	require.NoError(t, r.Delete(ctx, c.ID))
	require.NoError(t, r.Delete(ctx, c.ID))
	require.NoError(t, r.Delete(ctx, 424242))

	_, err := r.Get(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateOverwritesAllFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	c := seed(t, r, ClientInput{
		Name: "Ada", Email: "ada@x.io", Phone: "1", Status: "Active",
		FollowUpDate: "2026-09-01", Notes: "old",
	})

	in := ClientInput{Name: "Ada L", Email: "ada@y.io"}
	in.Normalize()
	updated, err := r.Update(ctx, c.ID, in)
	require.NoError(t, err)

	require.Equal(t, "Ada L", updated.Name)
	require.Equal(t, "ada@y.io", updated.Email)
	require.Empty(t, updated.Phone)
	require.Equal(t, DefaultStatus, updated.Status)
	require.Nil(t, updated.FollowUpDate, "full update must clear an omitted follow-up date")
	require.Empty(t, updated.Notes)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRepo(t)

	in := ClientInput{Name: "X", Email: "x@x.io"}
	in.Normalize()
	_, err := r.Update(context.Background(), 777, in)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatchChangesOnlySelectedFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	c := seed(t, r, ClientInput{
		Name: "Ada", Email: "ada@x.io", Phone: "555", FollowUpDate: "2026-09-01", Notes: "n",
	})

	patched, err := r.Patch(ctx, c.ID, PatchFromMap(map[string]any{"status": "Active"}))
	require.NoError(t, err)
	require.Equal(t, "Active", patched.Status)
	require.Equal(t, "Ada", patched.Name)
	require.Equal(t, "555", patched.Phone)
	require.NotNil(t, patched.FollowUpDate)
}

func TestPatchEmptyLeavesRecordUnchanged(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	c := seed(t, r, ClientInput{Name: "Ada", Email: "ada@x.io"})

	_, err := r.Patch(ctx, c.ID, ClientPatch{})
	require.ErrorIs(t, err, ErrNoFields)

	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestPatchNullClearsFollowUpDate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	c := seed(t, r, ClientInput{Name: "Ada", Email: "ada@x.io", FollowUpDate: "2026-09-01"})

	patched, err := r.Patch(ctx, c.ID, PatchFromMap(map[string]any{"follow_up_date": nil}))
	require.NoError(t, err)
	require.Nil(t, patched.FollowUpDate)
}

func TestPatchUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Patch(context.Background(), 777, PatchFromMap(map[string]any{"status": "Active"}))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListStatusFilterIsExact(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seed(t, r, ClientInput{Name: "A", Email: "a@x.io", Status: "Active"})
	seed(t, r, ClientInput{Name: "B", Email: "b@x.io", Status: "active"})
	seed(t, r, ClientInput{Name: "C", Email: "c@x.io", Status: "Inactive"})
	seed(t, r, ClientInput{Name: "D", Email: "d@x.io"})

	got, err := r.List(ctx, ListQuery{Status: "Active"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].Name)
}

func TestListSearchMatchesNameOrEmailCaseInsensitive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seed(t, r, ClientInput{Name: "John Smith", Email: "j@x.io"})
	seed(t, r, ClientInput{Name: "Jane", Email: "jane@SMITH.example"})
	seed(t, r, ClientInput{Name: "Bob", Email: "bob@x.io"})

	got, err := r.List(ctx, ListQuery{Search: "smith"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		require.NotEqual(t, "Bob", c.Name)
	}
}

func TestListSortingAndFallback(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seed(t, r, ClientInput{Name: "Carol", Email: "z@x.io"})
	seed(t, r, ClientInput{Name: "Alice", Email: "m@x.io"})
	seed(t, r, ClientInput{Name: "Bob", Email: "a@x.io"})

	byEmail, err := r.List(ctx, ListQuery{SortBy: "email"})
	require.NoError(t, err)
	require.Equal(t, []string{"Bob", "Alice", "Carol"}, names(byEmail))

	desc, err := r.List(ctx, ListQuery{SortBy: "name", Order: "DESC"})
	require.NoError(t, err)
	require.Equal(t, []string{"Carol", "Bob", "Alice"}, names(desc))

	// Invalid sort column silently falls back to name ascending.
	fallback, err := r.List(ctx, ListQuery{SortBy: "dropthis"})
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Bob", "Carol"}, names(fallback))
}

func TestListEmptyTableReturnsEmptySlice(t *testing.T) {
	r := newTestRepo(t)

	got, err := r.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestStatusCountsAndOverdueCount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	today := "2026-08-28"

	seed(t, r, ClientInput{Name: "A", Email: "a@x.io", Status: "Active", FollowUpDate: "2026-08-27"})
	seed(t, r, ClientInput{Name: "B", Email: "b@x.io", Status: "Active", FollowUpDate: "2026-08-28"})
	seed(t, r, ClientInput{Name: "C", Email: "c@x.io", FollowUpDate: "2026-08-01"})
	seed(t, r, ClientInput{Name: "D", Email: "d@x.io"})

	counts, err := r.StatusCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []StatusCount{{"Active", 2}, {"Lead", 2}}, counts)

	overdue, err := r.OverdueCount(ctx, today)
	require.NoError(t, err)
	require.EqualValues(t, 2, overdue, "dates before today are overdue, today itself is not")
}

func TestExportAllSortsByName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seed(t, r, ClientInput{Name: "Zed", Email: "z@x.io"})
	seed(t, r, ClientInput{Name: "Amy", Email: "a@x.io"})
	seed(t, r, ClientInput{Name: "Mia", Email: "m@x.io"})

	got, err := r.ExportAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Amy", "Mia", "Zed"}, names(got))
}

func names(clients []Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.Name
	}
	return out
}
