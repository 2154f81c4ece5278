package project

import (
	"context"
	"regexp"
	"testing"

	"behaviorOpt/domain"

	"github.com/stretchr/testify/require"
)

type fakeProjectRepo struct {
	items []domain.Project
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	f.items = append(f.items, *project)
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, organizationID, id string) (domain.Project, error) {
	for _, p := range f.items {
		if p.ID == id && p.OrganizationID == organizationID {
			return p, nil
		}
	}
	return domain.Project{}, domain.ErrProjectNotFound
}

func (f *fakeProjectRepo) FindAll(ctx context.Context, organizationID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.items {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestNewTrackingID(t *testing.T) {
	re := regexp.MustCompile(`^track_[0-9a-f]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewTrackingID()
		require.Regexp(t, re, id)
		seen[id] = true
	}
	require.Greater(t, len(seen), 95)
}

func TestProjectService(t *testing.T) {
	repo := &fakeProjectRepo{}
	svc := NewProjectService(repo)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "org-1", "Storefront", "shop.example.com")
	require.NoError(t, err)
	require.True(t, p.IsActive)
	require.Equal(t, "org-1", p.OrganizationID)
	require.NotEmpty(t, p.TrackingID)

	got, err := svc.GetProjectByID(ctx, "org-1", p.ID)
	require.NoError(t, err)
	require.Equal(t, p, got)

	_, err = svc.GetProjectByID(ctx, "org-2", p.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	all, err := svc.GetAllProjects(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.CreateProject(ctx, "org-1", "", "shop.example.com")
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.GetAllProjects(cancelled, "org-1")
	require.ErrorIs(t, err, context.Canceled)
}
