package register

import (
	"encoding/json"

	"mangiato/internal/models"
)

// Input element ids on the registration page.
const (
	FieldFirstName = "firstname"
	FieldLastName  = "lastname"
	FieldUsername  = "username"
	FieldPassword  = "password"
	DisplayID      = "response"
)

// FieldSource exposes the current value of an input by id.
type FieldSource interface {
	Value(id string) string
}

// FieldMap is a static FieldSource. Missing ids read as "".
type FieldMap map[string]string

func (m FieldMap) Value(id string) string { return m[id] }

// BuildRequestPayload snapshots the four form fields.
func BuildRequestPayload(fields FieldSource) models.RegistrationRequest {
	return models.RegistrationRequest{
		FirstName: fields.Value(FieldFirstName),
		LastName:  fields.Value(FieldLastName),
		Username:  fields.Value(FieldUsername),
		Password:  fields.Value(FieldPassword),
	}
}

func encodePayload(payload models.RegistrationRequest) ([]byte, error) {
	return json.Marshal(payload)
}
