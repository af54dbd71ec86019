package revision

import (
	"ifcaudit/internal/model"
)

// PropertySetName is the property set a record is embedded as.
const PropertySetName = "VersionControl"

// EmbedRecord writes rec as the VersionControl property set of the model's
// single IfcProject, replacing the values of an existing set. It fails with
// NoProjectElement when the model has no project or several.
func EmbedRecord(m *model.Model, rec Record) error {
	project, err := m.Project()
	if err != nil {
		return err
	}
	status := rec.ApprovalStatus
	if status == "" {
		status = Pending
	}
	props := []model.NamedValue{
		{Name: "FileName", Value: model.Text(rec.FileName)},
		{Name: "Hash", Value: model.Text(rec.FileHash)},
		{Name: "Timestamp", Value: model.Text(rec.TimestampISO())},
		{Name: "Author", Value: model.Text(rec.Author)},
		{Name: "Description", Value: model.Text(rec.Description), Long: true},
		{Name: "ApprovalStatus", Value: model.Text(string(status))},
		{Name: "Comments", Value: model.Text(rec.Comments), Long: true},
	}
	return m.AttachPropertySet(project.ID, PropertySetName, props)
}
