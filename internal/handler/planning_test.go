package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
)

func TestPlanning_CreateToggleBoard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/planning/todo", `{"text":"Buy JR pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[domain.PlanningItem](t, rec)
	assert.Equal(t, "me", item.AssignedTo)

	rec = env.do(t, http.MethodPost, "/api/planning/todo/"+item.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[handler.UpdateResponse[domain.PlanningItem]](t, rec)
	require.True(t, toggled.Updated)
	assert.True(t, toggled.Item.Completed)

	rec = env.do(t, http.MethodGet, "/api/planning", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[domain.PlanningBoard](t, rec)
	require.Len(t, board.Todo, 1)
	assert.True(t, board.Todo[0].Completed)
	assert.NotNil(t, board.Notes)
}

func TestPlanning_NotesURL(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/planning/notes", `{"text":"Osu shopping street","url":"osu.example.jp"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://osu.example.jp", decode[domain.PlanningItem](t, rec).URL)
}

func TestPlanning_UnknownList404(t *testing.T) {
	env := newTestEnv(t)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/planning/wishlist"},
		{http.MethodPost, "/api/planning/wishlist/1/toggle"},
		{http.MethodPost, "/api/planning/wishlist/1/delete"},
	} {
		rec := env.do(t, req.method, req.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, req.path)
	}
}

func TestPlanning_ListsHaveSeparateDeleteGuards(t *testing.T) {
	env := newTestEnv(t)
	todo := decode[domain.PlanningItem](t, env.do(t, http.MethodPost, "/api/planning/todo", `{"text":"a"}`))
	bag := decode[domain.PlanningItem](t, env.do(t, http.MethodPost, "/api/planning/luggage", `{"text":"b"}`))

	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, "/api/planning/todo/"+todo.ID.String()+"/delete", nil).Code)
	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, "/api/planning/luggage/"+bag.ID.String()+"/delete", nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/planning/todo/"+todo.ID.String()+"/delete", nil).Code)

	board := decode[domain.PlanningBoard](t, env.do(t, http.MethodGet, "/api/planning", nil))
	assert.Empty(t, board.Todo)
	assert.Len(t, board.Luggage, 1)
}

func TestPlanning_PatchLegacyItem(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.KeyPlanning, `{"shopping":[{"id":42,"text":"Matcha","completed":false,"user":"Ben"}]}`)

	rec := env.do(t, http.MethodPatch, "/api/planning/shopping/42", `{"completed":true}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[handler.UpdateResponse[domain.PlanningItem]](t, rec)
	require.True(t, body.Updated)
	assert.True(t, body.Item.Completed)
	assert.Equal(t, "Ben", body.Item.AssignedTo)
	assert.Equal(t, "Matcha", body.Item.Text)
}
