package models

// Messages returned by the users endpoints
const (
	MsgMailSent         = "A confirmation email has been sent."
	MsgExistingUser     = "A user with this email is already registered on the server"
	MsgNoFormatEmail    = "Error parsing input value email. Username must have a valid email format"
	MsgInvalidLink      = "The confirmation link is invalid or has expired."
	MsgNoUserLink       = "The user corresponding to this link confirmation not exist anymore"
	MsgAlreadyConfirmed = "Account already confirmed. Please login."
	MsgConfirmed        = "You have confirmed your account. Your user id is: %d . Now you can login."
	MsgInternalError    = "Internal error server"
	MsgUnauthorized     = "Unauthorized access. Invalid username or password."
	MsgNotConfirmed     = "Unauthorized access. This account has not been confirmed yet. Please check your email to activate."
)

// MessageResponse carries a human readable result in the "response" field
type MessageResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ConfirmationResponse is returned when an email link is followed
type ConfirmationResponse struct {
	IDUser   int64  `json:"id_user,omitempty"`
	Response string `json:"response"`
}

// LoginResponse carries an access token and its lifetime in seconds
type LoginResponse struct {
	Token    string `json:"token"`
	Duration int    `json:"duration"`
}
