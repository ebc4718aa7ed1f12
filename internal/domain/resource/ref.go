package resource

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another record that the backend sends either as a
// bare id or as a populated object.
type Ref struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department *Ref   `json:"department,omitempty"`
}

func (r Ref) Populated() bool {
	return r.Name != "" || r.Email != "" || r.Department != nil
}

// Label is the best human-readable form of the reference.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain Ref
	var p struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p.plain)
	if r.ID == "" {
		r.ID = p.AltID
	}
	return nil
}

// MarshalJSON keeps an unpopulated reference in its bare-id form.
func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Populated() {
		if r.ID == "" {
			return []byte("null"), nil
		}
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}
