package designation

import "hrconsole/internal/domain/resource"

type Designation struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Department  resource.Ref `json:"department"`
}

func (d Designation) RecordID() string { return d.ID }

type Input struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Department  string `json:"department,omitempty"`
}
