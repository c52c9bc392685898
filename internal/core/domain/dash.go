package domain

// Dash is the remote Infinidash resource as reported by the service. Config
// is the opaque service-side configuration document; its shape is owned by
// the service, not by this tool.
type Dash struct {
	ID          string
	ARN         string
	Name        string
	Status      DashStatus
	CreatedTime string
	Config      map[string]any
	Tags        map[string]string
}

type DashStatus string

const (
	StatusCreating  DashStatus = "creating"
	StatusAvailable DashStatus = "available"
	StatusDeleting  DashStatus = "deleting"
	StatusDeleted   DashStatus = "deleted"
)

func (s DashStatus) String() string {
	return string(s)
}

type DesiredState string

const (
	StatePresent DesiredState = "present"
	StateAbsent  DesiredState = "absent"
)

func (s DesiredState) String() string {
	return string(s)
}

func (s DesiredState) Valid() bool {
	return s == StatePresent || s == StateAbsent
}
