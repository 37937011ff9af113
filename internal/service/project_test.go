package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

type fakeProjectStore struct {
	projects map[string]*model.Project
	inserted []*model.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (f *fakeProjectStore) CreateProject(ctx context.Context, project *model.Project) error {
	f.projects[project.ID] = project
	f.inserted = append(f.inserted, project)
	return nil
}

func (f *fakeProjectStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	var out []*model.Project
	for _, p := range f.inserted {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProjectStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	if _, ok := f.projects[id]; !ok {
		return false, nil
	}
	delete(f.projects, id)
	return true, nil
}

func strPtr(s string) *string { return &s }

func TestProjectService_CreateProject_TrimsName(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store, nil)

	project, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:    "  My Project  ",
		OwnerID: "user_1",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if project.Name != "My Project" {
		t.Errorf("Name = %q, want %q", project.Name, "My Project")
	}
	if project.Slug != "my-project" {
		t.Errorf("Slug = %q, want %q", project.Slug, "my-project")
	}
	if project.OwnerID != "user_1" {
		t.Errorf("OwnerID = %q, want user_1", project.OwnerID)
	}
	if project.ID == "" {
		t.Error("ID should be generated")
	}
}

func TestProjectService_CreateProject_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		projectName string
		description *string
		wantErr     error
	}{
		{
			name:        "empty name",
			projectName: "",
			wantErr:     ErrNameRequired,
		},
		{
			name:        "whitespace only name",
			projectName: "   ",
			wantErr:     ErrNameRequired,
		},
		{
			name:        "name too short after trim",
			projectName: " ab ",
			wantErr:     ErrNameTooShort,
		},
		{
			name:        "name too long",
			projectName: strings.Repeat("a", 201),
			wantErr:     ErrNameTooLong,
		},
		{
			name:        "name at max length",
			projectName: strings.Repeat("a", 200),
			wantErr:     nil,
		},
		{
			name:        "name at min length",
			projectName: "abc",
			wantErr:     nil,
		},
		{
			name:        "multibyte name counts characters not bytes",
			projectName: strings.Repeat("é", 150),
			wantErr:     nil,
		},
		{
			name:        "two character multibyte name too short",
			projectName: "日本",
			wantErr:     ErrNameTooShort,
		},
		{
			name:        "multibyte name over limit",
			projectName: strings.Repeat("日", 201),
			wantErr:     ErrNameTooLong,
		},
		{
			name:        "description too long",
			projectName: "Valid Name",
			description: strPtr(strings.Repeat("d", 1001)),
			wantErr:     ErrDescriptionTooLong,
		},
		{
			name:        "description at max length",
			projectName: "Valid Name",
			description: strPtr(strings.Repeat("d", 1000)),
			wantErr:     nil,
		},
		{
			name:        "multibyte description at max length",
			projectName: "Valid Name",
			description: strPtr(strings.Repeat("ü", 1000)),
			wantErr:     nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewProjectService(newFakeProjectStore(), nil)

			_, err := svc.CreateProject(context.Background(), CreateProjectInput{
				Name:        tc.projectName,
				Description: tc.description,
				OwnerID:     "user_1",
			})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CreateProject error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestProjectService_CreateProject_BlankDescriptionDropped(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store, nil)

	project, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:        "My Project",
		Description: strPtr("   "),
		OwnerID:     "user_1",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if project.Description != nil {
		t.Errorf("blank description should normalize to absent, got %q", *project.Description)
	}
}

func TestProjectService_GetProject_OwnershipMismatch(t *testing.T) {
	store := newFakeProjectStore()
	store.projects["proj_1"] = &model.Project{ID: "proj_1", OwnerID: "user_1"}
	svc := NewProjectService(store, nil)

	_, err := svc.GetProject(context.Background(), "user_2", "proj_1")
	if !errors.Is(err, ErrNotProjectOwner) {
		t.Errorf("expected ErrNotProjectOwner, got %v", err)
	}
}

func TestProjectService_GetProject_NotFound(t *testing.T) {
	svc := NewProjectService(newFakeProjectStore(), nil)

	_, err := svc.GetProject(context.Background(), "user_1", "proj_missing")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectService_DeleteProject_RequiresOwnership(t *testing.T) {
	store := newFakeProjectStore()
	store.projects["proj_1"] = &model.Project{ID: "proj_1", OwnerID: "user_1"}
	svc := NewProjectService(store, nil)

	err := svc.DeleteProject(context.Background(), "user_2", "proj_1")
	if !errors.Is(err, ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}

	// Project must survive an unauthorized delete.
	if _, ok := store.projects["proj_1"]; !ok {
		t.Error("project should not be deleted by a non-owner")
	}
}

func TestProjectService_DeleteProject_Owner(t *testing.T) {
	store := newFakeProjectStore()
	store.projects["proj_1"] = &model.Project{ID: "proj_1", OwnerID: "user_1"}
	svc := NewProjectService(store, nil)

	if err := svc.DeleteProject(context.Background(), "user_1", "proj_1"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, ok := store.projects["proj_1"]; ok {
		t.Error("project should be deleted")
	}
}

func TestProjectService_ListProjects_ClampsLimit(t *testing.T) {
	store := newFakeProjectStore()
	svc := NewProjectService(store, nil)

	for i := 0; i < 150; i++ {
		_, err := svc.CreateProject(context.Background(), CreateProjectInput{
			Name:    "Project Number Whatever",
			OwnerID: "user_1",
		})
		if err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
	}

	projects, err := svc.ListProjects(context.Background(), "user_1", 500, 0)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != MaxProjectLimit {
		t.Errorf("got %d projects, want clamped to %d", len(projects), MaxProjectLimit)
	}

	// Non-positive limits fall back to the default.
	projects, err = svc.ListProjects(context.Background(), "user_1", 0, 0)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != DefaultProjectLimit {
		t.Errorf("got %d projects, want default %d", len(projects), DefaultProjectLimit)
	}
}

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "My Project", "my-project"},
		{"punctuation", "Data: Q4 (final)", "data-q4-final"},
		{"leading trailing", "  spaced out  ", "spaced-out"},
		{"already slug", "already-a-slug", "already-a-slug"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := slugify(tc.in); got != tc.want {
				t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
