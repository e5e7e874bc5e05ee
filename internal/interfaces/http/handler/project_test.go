package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/internal/interfaces/http/dto"
	"sitecraft-api/pkg/errors"
)

type fakeProjectRepo struct {
	projects map[int64]*entity.Project
	nextID   int64
}

func newFakeProjectRepo(projects ...*entity.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[int64]*entity.Project), nextID: 100}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.nextID++
	project.ID = r.nextID
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id, ownerID int64) (*entity.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	p, ok := r.projects[project.ID]
	if !ok || p.OwnerID != project.OwnerID {
		return errors.ErrProjectNotFound
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return false, nil
	}
	delete(r.projects, id)
	return true, nil
}

func (r *fakeProjectRepo) ListByOwner(ctx context.Context, ownerID int64, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	items := make([]*entity.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			items = append(items, p)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func projectTestRouter(repo *fakeProjectRepo, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})

	h := NewProjectHandler(repo, fakeTx{})
	r.GET("/v1/projects", h.ListProjects)
	r.POST("/v1/projects", h.CreateProject)
	r.GET("/v1/projects/:pid", h.GetProject)
	r.PUT("/v1/projects/:pid", h.UpdateProject)
	r.DELETE("/v1/projects/:pid", h.DeleteProject)
	return r
}

func ownedProject(id, ownerID int64, name string) *entity.Project {
	p := entity.NewProject(ownerID, name)
	p.ID = id
	return p
}

func TestCreateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	r := projectTestRouter(repo, 7)

	body := bytes.NewBufferString(`{"name":"My Shop","website_type":"ecommerce","requirements":"sell bread"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/projects", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "My Shop", resp.Data.Name)
	assert.Equal(t, "ecommerce", resp.Data.WebsiteType)
	assert.Equal(t, "draft", resp.Data.Status)
	assert.Equal(t, int64(7), resp.Data.OwnerID)
}

func TestCreateProjectMissingName(t *testing.T) {
	r := projectTestRouter(newFakeProjectRepo(), 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectOwnerScoped(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 8, "not mine"))
	r := projectTestRouter(repo, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/projects/1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProject(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	r := projectTestRouter(repo, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/projects/1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mine", resp.Data.Name)
}

func TestUpdateProjectPartial(t *testing.T) {
	project := ownedProject(1, 7, "mine")
	project.Description = "old"
	repo := newFakeProjectRepo(project)
	r := projectTestRouter(repo, 7)

	body := bytes.NewBufferString(`{"description":"new description"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/projects/1", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new description", resp.Data.Description)
	// 未给出的字段保持不变
	assert.Equal(t, "mine", resp.Data.Name)
}

func TestDeleteProject(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	r := projectTestRouter(repo, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/projects/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	// 再次删除表现为未找到
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/projects/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProjectsPageMeta(t *testing.T) {
	repo := newFakeProjectRepo(
		ownedProject(1, 7, "a"),
		ownedProject(2, 7, "b"),
		ownedProject(3, 8, "other"),
	)
	r := projectTestRouter(repo, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/projects?page=1&page_size=10", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[*dto.ProjectListResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Projects, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.PageSize)
}
