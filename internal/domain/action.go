package domain

import (
	"errors"
	"strings"
)

// jsonContentType is the only content type the agent backend sends for
// function-style action invocations.
const jsonContentType = "application/json"

var (
	// ErrMissingProperties is returned when an invocation carries no
	// parameters at all.
	ErrMissingProperties = errors.New("invalid input, missing request body")

	// ErrMissingFields is returned when phone or name are absent.
	ErrMissingFields = errors.New("invalid input, missing required fields")

	// ErrIncompleteName is returned when the name has fewer than two
	// whitespace-separated tokens. The agent prompt asks the model to
	// collect a full name but nothing upstream enforces structure, so
	// this check is the last line of defense.
	ErrIncompleteName = errors.New("please provide both first and last names")
)

// ActionProperty is one named parameter in an action invocation.
type ActionProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ActionInvocation is the backend-originated envelope asking this system
// to perform a named side effect.
type ActionInvocation struct {
	MessageVersion string `json:"messageVersion,omitempty"`
	ActionGroup    string `json:"actionGroup,omitempty"`
	Function       string `json:"function,omitempty"`
	RequestBody    struct {
		Content map[string]struct {
			Properties []ActionProperty `json:"properties"`
		} `json:"content"`
	} `json:"requestBody"`
}

// Properties returns the ordered parameter sequence from the JSON content
// body, or nil if absent.
func (a ActionInvocation) Properties() []ActionProperty {
	return a.RequestBody.Content[jsonContentType].Properties
}

// FlattenProperties converts the ordered property sequence into a
// name→value mapping. Later duplicates win, matching arrival order.
func FlattenProperties(props []ActionProperty) map[string]string {
	if len(props) == 0 {
		return nil
	}
	m := make(map[string]string, len(props))
	for _, p := range props {
		m[p.Name] = p.Value
	}
	return m
}

// NotificationRequest is a validated, ready-to-send notification.
type NotificationRequest struct {
	Recipient string
	FirstName string
	LastName  string
	Body      string
}

// ParseFullName splits a name into first name and last name, requiring at
// least two whitespace-separated tokens. Remaining tokens are rejoined as
// the last name to tolerate multi-word surnames.
func ParseFullName(name string) (first, last string, err error) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return "", "", ErrIncompleteName
	}
	return parts[0], strings.Join(parts[1:], " "), nil
}

// ActionResponse is the success/failure envelope returned to the backend.
type ActionResponse struct {
	MessageVersion string       `json:"messageVersion"`
	Response       ActionResult `json:"response"`
}

// ActionResult routes the outcome back to the in-flight action call.
type ActionResult struct {
	ActionGroup      string           `json:"actionGroup"`
	Function         string           `json:"function"`
	FunctionResponse FunctionResponse `json:"functionResponse"`
}

// FunctionResponse carries the response state and per-content-type bodies.
type FunctionResponse struct {
	ResponseState string                     `json:"responseState,omitempty"`
	ResponseBody  map[string]ResponseContent `json:"responseBody"`
}

// ResponseContent is a single content-type body in a function response.
type ResponseContent struct {
	Message string `json:"message"`
}

// Response states understood by the agent backend.
const (
	ResponseStateSuccess = "SUCCESS"
	ResponseStateFailure = "FAILURE"
)

// NewActionResponse builds the envelope for a completed action.
func NewActionResponse(actionGroup, function, state, message string) ActionResponse {
	return ActionResponse{
		MessageVersion: "1.0",
		Response: ActionResult{
			ActionGroup: actionGroup,
			Function:    function,
			FunctionResponse: FunctionResponse{
				ResponseState: state,
				ResponseBody: map[string]ResponseContent{
					jsonContentType: {Message: message},
				},
			},
		},
	}
}
