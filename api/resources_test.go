package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectNormalizesInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/projects", token: env.token(t), body: map[string]any{
		"title":       "  Portfolio  ",
		"description": `<p onclick="x()">Built with <strong>Go</strong></p><script>alert(1)</script>`,
		"year":        2024,
		"tags":        []string{"Swift", "swift", " Go "},
		"client":      "Acme",
		"links": []map[string]string{
			{"label": "Code", "url": "https://github.com/me/portfolio"},
			{"label": "Repo", "url": "https://github.com/me/portfolio"},
		},
		"images": []string{"https://cdn.example.com/a.png"},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	p := decodeData[models.Project](t, w)
	assert.Equal(t, "Portfolio", p.Title)
	assert.Equal(t, "<p>Built with <strong>Go</strong></p>", p.Description)
	assert.Equal(t, []string{"Swift", "Go"}, []string(p.Tags))
	assert.Equal(t, []models.Link{{Label: "Code", URL: "https://github.com/me/portfolio"}}, []models.Link(p.Links))
	require.NotNil(t, p.Client)
	assert.Nil(t, p.Duration)

	get := env.do(t, request{method: http.MethodGet, path: "/api/projects/" + p.ID.String()})
	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, p.ID, decodeData[models.Project](t, get).ID)
}

func TestCreateProjectRejectsInvalidTags(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/projects", token: env.token(t), body: map[string]any{
		"title": "P", "description": "<p>d</p>", "year": 2024,
		"tags": []string{"", strings.Repeat("x", 41)},
	}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errs.CodeBadRequest, decodeError(t, w).Error.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "tags[0]")
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"missing title", map[string]any{"description": "d", "year": 2024}, "title is required"},
		{"year out of range", map[string]any{"title": "t", "description": "d", "year": 1800}, "year"},
		{"year wrong type", map[string]any{"title": "t", "description": "d", "year": "2024"}, "year"},
		{"bad image url", map[string]any{"title": "t", "description": "d", "year": 2024, "images": []string{"ftp://x"}}, "images[0]"},
		{"script-only description", map[string]any{"title": "t", "description": "<script>x</script>", "year": 2024}, "description must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, request{method: http.MethodPost, path: "/api/projects", token: env.token(t), body: tc.body})
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodeError(t, w).Error.Message, tc.message)
		})
	}
}

func TestUpdateProjectPartially(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/projects", token: token, body: map[string]any{
		"title": "Original", "description": "<p>d</p>", "year": 2023, "client": "Acme", "tags": []string{"Go"},
	}})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decodeData[models.Project](t, w)
	path := "/api/projects/" + p.ID.String()

	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, body: map[string]any{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "at least one field")

	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, rawBody: []byte(`{"title":"Renamed","client":null}`)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData[models.Project](t, w)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Nil(t, updated.Client)
	assert.Equal(t, 2023, updated.Year)
	assert.Equal(t, []string{"Go"}, []string(updated.Tags))

	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, rawBody: []byte(`{"title":null}`)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectNotFoundAndBadID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodGet, path: "/api/projects/6f1b5e0e-7d7c-4c55-9d55-0d2f5b1f3a10"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errs.CodeNotFound, decodeError(t, w).Error.Code)
	assert.Equal(t, "project not found", decodeError(t, w).Error.Message)

	w = env.do(t, request{method: http.MethodDelete, path: "/api/projects/6f1b5e0e-7d7c-4c55-9d55-0d2f5b1f3a10", token: env.token(t)})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/projects/not-a-uuid"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "id must be a valid UUID")
}

func TestListProjectsPagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	for _, year := range []int{2020, 2021, 2022, 2023, 2024} {
		w := env.do(t, request{method: http.MethodPost, path: "/api/projects", token: token, body: map[string]any{
			"title": "Project", "description": "d", "year": year,
		}})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, request{method: http.MethodGet, path: "/api/projects?page=2&limit=2"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.Project `json:"data"`
		Meta listMeta         `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, listMeta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, body.Meta)
	require.Len(t, body.Data, 2)
	assert.Equal(t, 2022, body.Data[0].Year)
	assert.Equal(t, 2021, body.Data[1].Year)

	w = env.do(t, request{method: http.MethodGet, path: "/api/projects"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, listMeta{Page: 1, Limit: 10, Total: 5, TotalPages: 1}, body.Meta)

	for _, q := range []string{"page=0", "limit=101", "page=abc"} {
		w = env.do(t, request{method: http.MethodGet, path: "/api/projects?" + q})
		assert.Equalf(t, http.StatusBadRequest, w.Code, "query %s", q)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodGet, path: "/api/experiences"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"page":1,"limit":10,"total":0,"totalPages":0}}`, w.Body.String())
}

func TestDuplicateCategoryIsConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.createCategory(t, "Development")

	w := env.do(t, request{method: http.MethodPost, path: "/api/categories", token: env.token(t), body: map[string]any{"name": "Development"}})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, errs.CodeConflict, decodeError(t, w).Error.Code)
}

func TestDeleteCategoryWithBlogsIsConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	category := env.createCategory(t, "Engineering")
	w := env.do(t, request{method: http.MethodPost, path: "/api/blogs", token: token, body: map[string]any{
		"title": "Hello", "description": "<p>First post</p>", "categoryId": category.ID.String(),
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	blog := decodeData[models.Blog](t, w)
	require.NotNil(t, blog.Category)
	assert.Equal(t, "Engineering", blog.Category.Name)

	w = env.do(t, request{method: http.MethodDelete, path: "/api/categories/" + category.ID.String(), token: token})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errs.CodeConflict, decodeError(t, w).Error.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/categories/" + category.ID.String()})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, request{method: http.MethodDelete, path: "/api/blogs/" + blog.ID.String(), token: token})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(t, request{method: http.MethodDelete, path: "/api/categories/" + category.ID.String(), token: token})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBlogRequiresExistingCategory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/blogs", token: env.token(t), body: map[string]any{
		"title": "Orphan", "description": "x", "categoryId": "6f1b5e0e-7d7c-4c55-9d55-0d2f5b1f3a10",
	}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "categoryId")

	w = env.do(t, request{method: http.MethodPost, path: "/api/blogs", token: env.token(t), body: map[string]any{
		"title": "Orphan", "description": "x", "categoryId": "nope",
	}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "categoryId must be a valid UUID")
}

func TestListBlogsByCategory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	a := env.createCategory(t, "A")
	b := env.createCategory(t, "B")
	for _, c := range []models.Category{a, a, b} {
		w := env.do(t, request{method: http.MethodPost, path: "/api/blogs", token: token, body: map[string]any{
			"title": "Post", "description": "x", "categoryId": c.ID.String(),
		}})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, request{method: http.MethodGet, path: "/api/blogs?categoryId=" + a.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.Blog `json:"data"`
		Meta listMeta      `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Meta.Total)

	w = env.do(t, request{method: http.MethodGet, path: "/api/blogs?categoryId=bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExperienceChronology(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	base := map[string]any{
		"company": "Acme", "role": "Engineer", "summary": "<p>Built things</p>",
		"startMonth": "2024-05", "endMonth": "2023-01",
	}
	w := env.do(t, request{method: http.MethodPost, path: "/api/experiences", token: token, body: base})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "endMonth")

	base["endMonth"] = "2024-08"
	base["techTags"] = []string{"Go", "go"}
	w = env.do(t, request{method: http.MethodPost, path: "/api/experiences", token: token, body: base})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	e := decodeData[models.Experience](t, w)
	assert.Equal(t, []string{"Go"}, []string(e.TechTags))
	assert.Equal(t, 0, e.SortOrder)
	path := "/api/experiences/" + e.ID.String()

	// merged with the stored endMonth
	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, body: map[string]any{"isCurrent": true}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "isCurrent")

	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, rawBody: []byte(`{"isCurrent":true,"endMonth":null}`)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData[models.Experience](t, w)
	assert.True(t, updated.IsCurrent)
	assert.Nil(t, updated.EndMonth)

	w = env.do(t, request{method: http.MethodPatch, path: path, token: token, body: map[string]any{"startMonth": "2024-13"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMalformedBodies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.token(t)

	tests := []struct {
		name    string
		body    []byte
		message string
	}{
		{"syntax", []byte(`{"name":`), "malformed JSON body"},
		{"array", []byte(`["x"]`), "request body must be a JSON object"},
		{"two objects", []byte(`{"name":"a"}{"name":"b"}`), "single JSON object"},
		{"too large", []byte(`{"name":"` + strings.Repeat("a", 70<<10) + `"}`), "payload too large"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, request{method: http.MethodPost, path: "/api/categories", token: token, rawBody: tc.body})
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodeError(t, w).Error.Message, tc.message)
		})
	}
}

func TestUnmatchedRoutesAreNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, req := range []request{
		{method: http.MethodGet, path: "/api/nothing"},
		{method: http.MethodPut, path: "/api/projects"},
		{method: http.MethodGet, path: "/"},
	} {
		w := env.do(t, req)
		require.Equalf(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
		assert.Equal(t, errs.CodeNotFound, decodeError(t, w).Error.Code)
	}
}
