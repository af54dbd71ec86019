package model

import (
	"time"
)

// ProjectInfo is the descriptive metadata of a model's IfcProject.
type ProjectInfo struct {
	GlobalID     string     `json:"globalId" yaml:"globalId"`
	Name         string     `json:"name" yaml:"name"`
	LongName     string     `json:"longName,omitempty" yaml:"longName,omitempty"`
	Description  string     `json:"description,omitempty" yaml:"description,omitempty"`
	Phase        string     `json:"phase,omitempty" yaml:"phase,omitempty"`
	CreationDate *time.Time `json:"creationDate,omitempty" yaml:"creationDate,omitempty"`
	Application  string     `json:"application,omitempty" yaml:"application,omitempty"`
	Schema       string     `json:"schema" yaml:"schema"`
}

// ProjectInfo reads the single IfcProject. It fails with NoProjectElement
// when the model has none or several.
func (m *Model) ProjectInfo() (*ProjectInfo, error) {
	project, err := m.Project()
	if err != nil {
		return nil, err
	}
	inst, _ := m.file.Instance(project.ID)

	info := &ProjectInfo{
		GlobalID:    project.GlobalID,
		Name:        project.Name,
		Description: project.Description,
		Schema:      m.schema.ID(),
	}
	info.LongName, _ = inst.Attr(5).AsString()
	info.Phase, _ = inst.Attr(6).AsString()

	if history, ok := m.file.Instance(refOf(inst.Attr(1))); ok && history.Type == "IFCOWNERHISTORY" {
		if secs, ok := history.Attr(7).AsFloat(); ok {
			t := time.Unix(int64(secs), 0).UTC()
			info.CreationDate = &t
		}
		if app, ok := m.file.Instance(refOf(history.Attr(1))); ok && app.Type == "IFCAPPLICATION" {
			info.Application, _ = app.Attr(2).AsString()
		}
	}
	return info, nil
}
