package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/baynext/baynext/internal/model"
	"github.com/baynext/baynext/internal/repository"
)

type fakePipelineStore struct {
	pipelines map[string]*model.Pipeline
	datasets  map[string]*model.Dataset
}

func newFakePipelineStore() *fakePipelineStore {
	return &fakePipelineStore{
		pipelines: make(map[string]*model.Pipeline),
		datasets:  make(map[string]*model.Dataset),
	}
}

func (f *fakePipelineStore) CreatePipeline(ctx context.Context, pipeline *model.Pipeline) error {
	f.pipelines[pipeline.ID] = pipeline
	return nil
}

func (f *fakePipelineStore) GetPipelineByID(ctx context.Context, id string) (*model.Pipeline, error) {
	p, ok := f.pipelines[id]
	if !ok {
		return nil, repository.ErrPipelineNotFound
	}
	return p, nil
}

func (f *fakePipelineStore) ListPipelinesByProject(ctx context.Context, projectID string) ([]*model.Pipeline, error) {
	var out []*model.Pipeline
	for _, p := range f.pipelines {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePipelineStore) DeletePipeline(ctx context.Context, id string) (bool, error) {
	if _, ok := f.pipelines[id]; !ok {
		return false, nil
	}
	delete(f.pipelines, id)
	return true, nil
}

func (f *fakePipelineStore) GetDatasetByID(ctx context.Context, id string) (*model.Dataset, error) {
	d, ok := f.datasets[id]
	if !ok {
		return nil, repository.ErrDatasetNotFound
	}
	return d, nil
}

func validSpec() json.RawMessage {
	return json.RawMessage(`{"model":"linear","target":"revenue"}`)
}

func TestPipelineService_CreatePipeline(t *testing.T) {
	store := newFakePipelineStore()
	store.datasets["ds_1"] = &model.Dataset{ID: "ds_1", ProjectID: "proj_1"}
	svc := NewPipelineService(store)

	pipeline, err := svc.CreatePipeline(context.Background(), "proj_1", model.PipelineCreateRequest{
		DisplayName: "  Revenue Model  ",
		DatasetID:   "ds_1",
		ModelSpec:   validSpec(),
	})
	if err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}

	if pipeline.DisplayName != "Revenue Model" {
		t.Errorf("DisplayName = %q, want trimmed", pipeline.DisplayName)
	}
	if !strings.HasPrefix(pipeline.ID, "pipe_") {
		t.Errorf("pipeline ID should have pipe_ prefix, got %q", pipeline.ID)
	}
	if pipeline.DatasetID != "ds_1" {
		t.Errorf("DatasetID = %q, want ds_1", pipeline.DatasetID)
	}
}

func TestPipelineService_CreatePipeline_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		req     model.PipelineCreateRequest
		wantErr error
	}{
		{
			name:    "empty display name",
			req:     model.PipelineCreateRequest{DatasetID: "ds_1", ModelSpec: validSpec()},
			wantErr: ErrPipelineNameRequired,
		},
		{
			name: "display name too long",
			req: model.PipelineCreateRequest{
				DisplayName: strings.Repeat("a", 256),
				DatasetID:   "ds_1",
				ModelSpec:   validSpec(),
			},
			wantErr: ErrPipelineNameTooLong,
		},
		{
			name: "multibyte display name at max counts characters",
			req: model.PipelineCreateRequest{
				DisplayName: strings.Repeat("é", 255),
				DatasetID:   "ds_1",
				ModelSpec:   validSpec(),
			},
			wantErr: nil,
		},
		{
			name: "missing dataset id",
			req: model.PipelineCreateRequest{
				DisplayName: "Model",
				ModelSpec:   validSpec(),
			},
			wantErr: ErrPipelineDatasetRequired,
		},
		{
			name: "missing model spec",
			req: model.PipelineCreateRequest{
				DisplayName: "Model",
				DatasetID:   "ds_1",
			},
			wantErr: ErrInvalidModelSpec,
		},
		{
			name: "malformed model spec",
			req: model.PipelineCreateRequest{
				DisplayName: "Model",
				DatasetID:   "ds_1",
				ModelSpec:   json.RawMessage(`{"unterminated`),
			},
			wantErr: ErrInvalidModelSpec,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakePipelineStore()
			store.datasets["ds_1"] = &model.Dataset{ID: "ds_1", ProjectID: "proj_1"}
			svc := NewPipelineService(store)

			_, err := svc.CreatePipeline(context.Background(), "proj_1", tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("CreatePipeline error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPipelineService_CreatePipeline_ForeignDataset(t *testing.T) {
	store := newFakePipelineStore()
	store.datasets["ds_other"] = &model.Dataset{ID: "ds_other", ProjectID: "proj_other"}
	svc := NewPipelineService(store)

	_, err := svc.CreatePipeline(context.Background(), "proj_1", model.PipelineCreateRequest{
		DisplayName: "Model",
		DatasetID:   "ds_other",
		ModelSpec:   validSpec(),
	})
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("dataset from another project must resolve to ErrDatasetNotFound, got %v", err)
	}
}

func TestPipelineService_GetPipeline_ScopedToProject(t *testing.T) {
	store := newFakePipelineStore()
	store.pipelines["pipe_1"] = &model.Pipeline{ID: "pipe_1", ProjectID: "proj_1"}
	svc := NewPipelineService(store)

	if _, err := svc.GetPipeline(context.Background(), "proj_1", "pipe_1"); err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}

	if _, err := svc.GetPipeline(context.Background(), "proj_other", "pipe_1"); !errors.Is(err, ErrPipelineNotFound) {
		t.Errorf("cross-project get should resolve to ErrPipelineNotFound, got %v", err)
	}
}

func TestPipelineService_DeletePipeline_ScopedToProject(t *testing.T) {
	store := newFakePipelineStore()
	store.pipelines["pipe_1"] = &model.Pipeline{ID: "pipe_1", ProjectID: "proj_1"}
	svc := NewPipelineService(store)

	if err := svc.DeletePipeline(context.Background(), "proj_other", "pipe_1"); !errors.Is(err, ErrPipelineNotFound) {
		t.Fatalf("cross-project delete should fail, got %v", err)
	}
	if _, ok := store.pipelines["pipe_1"]; !ok {
		t.Fatal("pipeline should survive a cross-project delete")
	}

	if err := svc.DeletePipeline(context.Background(), "proj_1", "pipe_1"); err != nil {
		t.Fatalf("DeletePipeline failed: %v", err)
	}
	if _, ok := store.pipelines["pipe_1"]; ok {
		t.Error("pipeline should be deleted")
	}
}
