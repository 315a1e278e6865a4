package models

// RegistrationRequest is the body posted by the registration form.
// Fields are never omitted from JSON; an empty input is sent as "".
// Names may be empty, username and password may not.
type RegistrationRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}
