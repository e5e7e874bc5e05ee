package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft-api/internal/application/generation"
	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/interfaces/http/dto"
)

type fakeHistoryLister struct {
	attempts []*entity.GenerationAttempt
	calls    int
}

func (f *fakeHistoryLister) ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error) {
	f.calls++
	return f.attempts, nil
}

type fakeHistoryRepo struct {
	attempts []*entity.GenerationAttempt
}

func (r *fakeHistoryRepo) Append(ctx context.Context, attempt *entity.GenerationAttempt) error {
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeHistoryRepo) ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error) {
	return r.attempts, nil
}

type fakeGenClient struct {
	output string
	err    error
}

func (c *fakeGenClient) GenerateWebsite(ctx context.Context, prompt, websiteType string) (string, error) {
	return c.output, c.err
}

func (c *fakeGenClient) ModifyWebsite(ctx context.Context, existingCode, modifications, websiteType string) (string, error) {
	return c.output, c.err
}

func generationTestRouter(repo *fakeProjectRepo, client *fakeGenClient, lister *fakeHistoryLister, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})

	svc := generation.NewService(repo, &fakeHistoryRepo{}, client, nil)
	h := NewGenerationHandler(svc, repo, lister)
	r.POST("/v1/generate-website", h.GenerateWebsite)
	r.POST("/v1/regenerate-website", h.RegenerateWebsite)
	r.GET("/v1/generation-history/:pid", h.GetGenerationHistory)
	return r
}

func TestGenerateWebsiteEndpoint(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	r := generationTestRouter(repo, &fakeGenClient{output: "<html></html>"}, &fakeHistoryLister{}, 7)

	body := bytes.NewBufferString(`{"project_id":1,"prompt":"a bakery site"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate-website", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[*dto.GenerationResultResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Project)
	assert.Equal(t, "generated", resp.Data.Project.Status)
	require.NotNil(t, resp.Data.Project.GeneratedCode)
	assert.Equal(t, "<html></html>", *resp.Data.Project.GeneratedCode)
	assert.GreaterOrEqual(t, resp.Data.GenerationTime, 0.0)
}

func TestGenerateWebsiteProjectNotFound(t *testing.T) {
	r := generationTestRouter(newFakeProjectRepo(), &fakeGenClient{output: "x"}, &fakeHistoryLister{}, 7)

	body := bytes.NewBufferString(`{"project_id":42,"prompt":"a site"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate-website", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateWebsiteUpstreamFailure(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	r := generationTestRouter(repo, &fakeGenClient{err: fmt.Errorf("boom")}, &fakeHistoryLister{}, 7)

	body := bytes.NewBufferString(`{"project_id":1,"prompt":"a site"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate-website", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "4001", resp.Error.ErrorCode)
}

func TestRegenerateWebsiteWithoutExistingCode(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	r := generationTestRouter(repo, &fakeGenClient{output: "x"}, &fakeHistoryLister{}, 7)

	body := bytes.NewBufferString(`{"project_id":1,"modifications":"darker"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/regenerate-website", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGenerationHistory(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 7, "mine"))
	errMsg := "timeout"
	lister := &fakeHistoryLister{attempts: []*entity.GenerationAttempt{
		{ID: 2, ProjectID: 1, Prompt: "Modifications: darker", Success: false, ErrorMessage: &errMsg},
		{ID: 1, ProjectID: 1, Prompt: "a bakery site", Success: true},
	}}
	r := generationTestRouter(repo, &fakeGenClient{}, lister, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/generation-history/1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[*dto.HistoryListResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.History, 2)
	assert.Equal(t, "Modifications: darker", resp.Data.History[0].Prompt)
	assert.False(t, resp.Data.History[0].Success)
	assert.True(t, resp.Data.History[1].Success)

	// 响应不携带生成产物正文
	assert.NotContains(t, w.Body.String(), "generated_output")
}

func TestGetGenerationHistoryOwnershipGate(t *testing.T) {
	repo := newFakeProjectRepo(ownedProject(1, 8, "not mine"))
	lister := &fakeHistoryLister{}
	r := generationTestRouter(repo, &fakeGenClient{}, lister, 7)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/generation-history/1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, lister.calls)
}
