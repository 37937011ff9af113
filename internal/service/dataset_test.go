package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

type fakeDatasetStore struct {
	datasets map[string]*model.Dataset
}

func newFakeDatasetStore() *fakeDatasetStore {
	return &fakeDatasetStore{datasets: make(map[string]*model.Dataset)}
}

func (f *fakeDatasetStore) CreateDataset(ctx context.Context, dataset *model.Dataset) error {
	f.datasets[dataset.ID] = dataset
	return nil
}

func (f *fakeDatasetStore) GetDatasetByID(ctx context.Context, id string) (*model.Dataset, error) {
	d, ok := f.datasets[id]
	if !ok {
		return nil, repository.ErrDatasetNotFound
	}
	return d, nil
}

func (f *fakeDatasetStore) ListDatasetsByProject(ctx context.Context, projectID string) ([]*model.Dataset, error) {
	var out []*model.Dataset
	for _, d := range f.datasets {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDatasetStore) DeleteDataset(ctx context.Context, id string) (bool, error) {
	if _, ok := f.datasets[id]; !ok {
		return false, nil
	}
	delete(f.datasets, id)
	return true, nil
}

func TestDatasetService_CreateDataset(t *testing.T) {
	store := newFakeDatasetStore()
	svc := NewDatasetService(store)

	dataset, err := svc.CreateDataset(context.Background(), "proj_1", model.DatasetCreateRequest{
		Name:    "  Q3 Revenue  ",
		Columns: []string{"date", "channel", "spend"},
	})
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}

	if dataset.Name != "Q3 Revenue" {
		t.Errorf("Name = %q, want trimmed", dataset.Name)
	}
	if !strings.HasPrefix(dataset.ID, "ds_") {
		t.Errorf("dataset ID should have ds_ prefix, got %q", dataset.ID)
	}
	if dataset.ProjectID != "proj_1" {
		t.Errorf("ProjectID = %q, want proj_1", dataset.ProjectID)
	}
	if len(dataset.Columns) != 3 {
		t.Errorf("Columns = %v, want 3 entries", dataset.Columns)
	}
}

func TestDatasetService_CreateDataset_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		reqName string
		wantErr error
	}{
		{"empty name", "", ErrDatasetNameRequired},
		{"whitespace name", "   ", ErrDatasetNameRequired},
		{"name too long", strings.Repeat("a", 256), ErrDatasetNameTooLong},
		{"multibyte name at max counts characters", strings.Repeat("日", 255), nil},
		{"multibyte name over limit", strings.Repeat("日", 256), ErrDatasetNameTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDatasetService(newFakeDatasetStore())

			_, err := svc.CreateDataset(context.Background(), "proj_1", model.DatasetCreateRequest{Name: tc.reqName})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CreateDataset error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDatasetService_GetDataset_ScopedToProject(t *testing.T) {
	store := newFakeDatasetStore()
	store.datasets["ds_1"] = &model.Dataset{ID: "ds_1", ProjectID: "proj_1"}
	svc := NewDatasetService(store)

	if _, err := svc.GetDataset(context.Background(), "proj_1", "ds_1"); err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}

	if _, err := svc.GetDataset(context.Background(), "proj_other", "ds_1"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("cross-project get should resolve to ErrDatasetNotFound, got %v", err)
	}
}

func TestDatasetService_ListDatasets(t *testing.T) {
	store := newFakeDatasetStore()
	store.datasets["ds_1"] = &model.Dataset{ID: "ds_1", ProjectID: "proj_1"}
	store.datasets["ds_2"] = &model.Dataset{ID: "ds_2", ProjectID: "proj_1"}
	store.datasets["ds_3"] = &model.Dataset{ID: "ds_3", ProjectID: "proj_other"}
	svc := NewDatasetService(store)

	datasets, err := svc.ListDatasets(context.Background(), "proj_1")
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	if len(datasets) != 2 {
		t.Errorf("got %d datasets, want 2", len(datasets))
	}
}

func TestDatasetService_DeleteDataset_ScopedToProject(t *testing.T) {
	store := newFakeDatasetStore()
	store.datasets["ds_1"] = &model.Dataset{ID: "ds_1", ProjectID: "proj_1"}
	svc := NewDatasetService(store)

	if err := svc.DeleteDataset(context.Background(), "proj_other", "ds_1"); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("cross-project delete should fail, got %v", err)
	}
	if _, ok := store.datasets["ds_1"]; !ok {
		t.Fatal("dataset should survive a cross-project delete")
	}

	if err := svc.DeleteDataset(context.Background(), "proj_1", "ds_1"); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if _, ok := store.datasets["ds_1"]; ok {
		t.Error("dataset should be deleted")
	}
}
