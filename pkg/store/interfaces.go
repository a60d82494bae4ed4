package store

import (
	"context"
	"time"

	"vsubgo/pkg/model"
)

// ProjectInfo is a listing row: enough to populate a project picker
// without deserializing the whole document.
type ProjectInfo struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectStore handles project persistence. Projects are stored as the
// canonical JSON of the model tree, keyed by title.
type ProjectStore interface {
	SaveProject(ctx context.Context, p *model.Project) error
	GetProject(ctx context.Context, name string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]ProjectInfo, error)
	DeleteProject(ctx context.Context, name string) error
}

// TemplateStore handles named voice presets.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]model.VoiceTemplate, error)
	SaveTemplate(ctx context.Context, t model.VoiceTemplate) error
	DeleteTemplate(ctx context.Context, name string) error
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}
