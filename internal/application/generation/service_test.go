package generation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft-api/internal/domain/entity"
	"sitecraft-api/internal/domain/repository"
	"sitecraft-api/pkg/errors"
)

type fakeProjectRepo struct {
	projects    map[int64]*entity.Project
	lastOwnerID int64
	updates     int
	updateErr   error
}

func newFakeProjectRepo(projects ...*entity.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[int64]*entity.Project)}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id, ownerID int64) (*entity.Project, error) {
	r.lastOwnerID = ownerID
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
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
	var items []*entity.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			items = append(items, p)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

type fakeHistoryRepo struct {
	attempts  []*entity.GenerationAttempt
	appendErr error
}

func (r *fakeHistoryRepo) Append(ctx context.Context, attempt *entity.GenerationAttempt) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeHistoryRepo) ListByProject(ctx context.Context, projectID int64, limit int) ([]*entity.GenerationAttempt, error) {
	return r.attempts, nil
}

type fakeClient struct {
	output       string
	err          error
	calls        int
	lastExisting string
	lastMods     string
}

func (c *fakeClient) GenerateWebsite(ctx context.Context, prompt, websiteType string) (string, error) {
	c.calls++
	return c.output, c.err
}

func (c *fakeClient) ModifyWebsite(ctx context.Context, existingCode, modifications, websiteType string) (string, error) {
	c.calls++
	c.lastExisting = existingCode
	c.lastMods = modifications
	return c.output, c.err
}

type fakeInvalidator struct {
	invalidated []int64
}

func (f *fakeInvalidator) InvalidateHistory(ctx context.Context, projectID int64) {
	f.invalidated = append(f.invalidated, projectID)
}

func draftProject(id, ownerID int64) *entity.Project {
	p := entity.NewProject(ownerID, "site")
	p.ID = id
	return p
}

func TestGenerateSuccess(t *testing.T) {
	projectRepo := newFakeProjectRepo(draftProject(1, 7))
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{output: "<html></html>"}
	invalidator := &fakeInvalidator{}
	svc := NewService(projectRepo, historyRepo, client, invalidator)

	result, err := svc.Generate(context.Background(), 7, 1, "a bakery site")
	require.NoError(t, err)

	assert.Equal(t, entity.ProjectStatusGenerated, result.Project.Status)
	require.NotNil(t, result.Project.GeneratedCode)
	assert.Equal(t, "<html></html>", *result.Project.GeneratedCode)
	assert.GreaterOrEqual(t, result.GenerationTime, 0.0)
	assert.Equal(t, 1, projectRepo.updates)

	require.Len(t, historyRepo.attempts, 1)
	attempt := historyRepo.attempts[0]
	assert.True(t, attempt.Success)
	assert.Equal(t, "a bakery site", attempt.Prompt)
	require.NotNil(t, attempt.GeneratedOutput)
	assert.Equal(t, "<html></html>", *attempt.GeneratedOutput)

	assert.Equal(t, []int64{1}, invalidator.invalidated)
}

func TestGenerateBlankPromptRejected(t *testing.T) {
	projectRepo := newFakeProjectRepo(draftProject(1, 7))
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{output: "<html></html>"}
	svc := NewService(projectRepo, historyRepo, client, nil)

	_, err := svc.Generate(context.Background(), 7, 1, "   \n\t ")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed))
	assert.Zero(t, client.calls)
	assert.Empty(t, historyRepo.attempts)
}

func TestGenerateProjectNotFound(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	historyRepo := &fakeHistoryRepo{}
	svc := NewService(projectRepo, historyRepo, &fakeClient{}, nil)

	_, err := svc.Generate(context.Background(), 7, 99, "a site")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeProjectNotFound))
	assert.Empty(t, historyRepo.attempts)
}

func TestGenerateOwnerScoped(t *testing.T) {
	projectRepo := newFakeProjectRepo(draftProject(1, 7))
	historyRepo := &fakeHistoryRepo{}
	svc := NewService(projectRepo, historyRepo, &fakeClient{output: "x"}, nil)

	// 其他用户访问同一项目表现为未找到
	_, err := svc.Generate(context.Background(), 8, 1, "a site")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeProjectNotFound))
	assert.Equal(t, int64(8), projectRepo.lastOwnerID)
}

func TestGenerateClientFailure(t *testing.T) {
	project := draftProject(1, 7)
	projectRepo := newFakeProjectRepo(project)
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{err: fmt.Errorf("upstream timeout")}
	invalidator := &fakeInvalidator{}
	svc := NewService(projectRepo, historyRepo, client, invalidator)

	_, err := svc.Generate(context.Background(), 7, 1, "a site")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeGenerationFailed))

	// 项目保持原状
	assert.Zero(t, projectRepo.updates)
	assert.Equal(t, entity.ProjectStatusDraft, project.Status)
	assert.Nil(t, project.GeneratedCode)

	// 失败同样记录一条历史
	require.Len(t, historyRepo.attempts, 1)
	attempt := historyRepo.attempts[0]
	assert.False(t, attempt.Success)
	require.NotNil(t, attempt.ErrorMessage)
	assert.Contains(t, *attempt.ErrorMessage, "upstream timeout")
	assert.Nil(t, attempt.GeneratedOutput)

	assert.Equal(t, []int64{1}, invalidator.invalidated)
}

func TestGenerateHistoryAppendFailureSwallowed(t *testing.T) {
	projectRepo := newFakeProjectRepo(draftProject(1, 7))
	historyRepo := &fakeHistoryRepo{appendErr: fmt.Errorf("insert failed")}
	svc := NewService(projectRepo, historyRepo, &fakeClient{output: "<html></html>"}, nil)

	result, err := svc.Generate(context.Background(), 7, 1, "a site")
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusGenerated, result.Project.Status)
}

func TestRegenerateSuccess(t *testing.T) {
	project := draftProject(1, 7)
	project.ApplyGeneration("<html>v1</html>")
	projectRepo := newFakeProjectRepo(project)
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{output: "<html>v2</html>"}
	svc := NewService(projectRepo, historyRepo, client, nil)

	result, err := svc.Regenerate(context.Background(), 7, 1, "make it darker")
	require.NoError(t, err)

	assert.Equal(t, entity.ProjectStatusRegenerated, result.Project.Status)
	assert.Equal(t, "<html>v2</html>", *result.Project.GeneratedCode)
	assert.Equal(t, "<html>v1</html>", client.lastExisting)
	assert.Equal(t, "make it darker", client.lastMods)

	require.Len(t, historyRepo.attempts, 1)
	assert.Equal(t, "Modifications: make it darker", historyRepo.attempts[0].Prompt)
}

func TestRegenerateRequiresExistingCode(t *testing.T) {
	projectRepo := newFakeProjectRepo(draftProject(1, 7))
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{output: "<html></html>"}
	svc := NewService(projectRepo, historyRepo, client, nil)

	_, err := svc.Regenerate(context.Background(), 7, 1, "make it darker")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeNoGeneratedCode))
	assert.Zero(t, client.calls)
	assert.Empty(t, historyRepo.attempts)
}

func TestRegenerateBlankModificationsRejected(t *testing.T) {
	project := draftProject(1, 7)
	project.ApplyGeneration("<html>v1</html>")
	projectRepo := newFakeProjectRepo(project)
	svc := NewService(projectRepo, &fakeHistoryRepo{}, &fakeClient{}, nil)

	_, err := svc.Regenerate(context.Background(), 7, 1, "  ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationFailed))
}

func TestRegenerateClientFailureKeepsExistingCode(t *testing.T) {
	project := draftProject(1, 7)
	project.ApplyGeneration("<html>v1</html>")
	projectRepo := newFakeProjectRepo(project)
	historyRepo := &fakeHistoryRepo{}
	client := &fakeClient{err: fmt.Errorf("boom")}
	svc := NewService(projectRepo, historyRepo, client, nil)

	_, err := svc.Regenerate(context.Background(), 7, 1, "make it darker")
	require.Error(t, err)

	assert.True(t, errors.IsCode(err, errors.CodeGenerationFailed))
	assert.Equal(t, "<html>v1</html>", *project.GeneratedCode)
	assert.Equal(t, entity.ProjectStatusGenerated, project.Status)

	require.Len(t, historyRepo.attempts, 1)
	assert.False(t, historyRepo.attempts[0].Success)
	assert.Equal(t, "Modifications: make it darker", historyRepo.attempts[0].Prompt)
}
