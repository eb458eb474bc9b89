package domain

import "strings"

// Resource describes a user-owned table the list editor can manage.
type Resource struct {
	Name         string // table name, e.g. "projects"
	DisplayField string // column holding the editable text, e.g. "name"
	Singular     string
	Plural       string

	// OwnerScoped restricts loads to rows whose user_id matches the session.
	OwnerScoped bool
}

var (
	Projects = Resource{
		Name:         "projects",
		DisplayField: "name",
		Singular:     "Project",
		Plural:       "Projects",
		OwnerScoped:  true,
	}
	Tasks = Resource{
		Name:         "tasks",
		DisplayField: "title",
		Singular:     "Task",
		Plural:       "Tasks",
		OwnerScoped:  true,
	}
)

// Resources lists every resource in navigation order.
func Resources() []Resource {
	return []Resource{Projects, Tasks}
}

// LookupResource finds a resource by table name or label, case-insensitively.
func LookupResource(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Resources() {
		if name == r.Name || name == strings.ToLower(r.Singular) || name == strings.ToLower(r.Plural) {
			return r, true
		}
	}
	return Resource{}, false
}

// Noun returns the lowercase singular label ("project", "task").
func (r Resource) Noun() string {
	return strings.ToLower(r.Singular)
}
