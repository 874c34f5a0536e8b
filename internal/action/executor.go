// Package action executes backend-originated action invocations, sending
// a notification message on the agent's behalf.
package action

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/logging"
	"github.com/soyeahso/agentbridge/internal/notify"
)

// smsTemplate is the fixed notification body. first/last come from the
// validated name parameter.
const smsTemplate = "Hello %s %s, this is a test message from our service!"

// defaultFunction is used when the invocation omits the function name.
const defaultFunction = "sendSms"

// Result is the outcome of executing one invocation: an HTTP-equivalent
// status plus the response envelope the backend expects either way.
type Result struct {
	StatusCode int
	Envelope   domain.ActionResponse
}

// Executor validates invocation parameters and sends the notification.
// It is the last line of defense for name structure: the provider does
// not enforce it.
type Executor struct {
	notifier    notify.Notifier
	actionGroup string
	log         *logging.Logger
}

// NewExecutor creates an action executor. actionGroup tags every response
// envelope so the backend can route results to the in-flight action call.
func NewExecutor(notifier notify.Notifier, actionGroup string, log *logging.Logger) *Executor {
	return &Executor{
		notifier:    notifier,
		actionGroup: actionGroup,
		log:         log.Sub("action"),
	}
}

// Execute runs one invocation. Exactly one notification is sent per
// successful invocation; no dedup, no retry.
func (e *Executor) Execute(ctx context.Context, inv domain.ActionInvocation) Result {
	group := e.actionGroup
	if group == "" {
		group = inv.ActionGroup
	}
	function := inv.Function
	if function == "" {
		function = defaultFunction
	}

	props := inv.Properties()
	if len(props) == 0 {
		e.log.Error().Msg("invocation has no parameters")
		return e.failure(group, function, http.StatusBadRequest, domain.ErrMissingProperties.Error())
	}

	params := domain.FlattenProperties(props)
	phone := params["phone"]
	name := params["name"]
	if phone == "" || name == "" {
		e.log.Error().Msg("invocation missing phone or name")
		return e.failure(group, function, http.StatusBadRequest, domain.ErrMissingFields.Error())
	}

	first, last, err := domain.ParseFullName(name)
	if err != nil {
		if errors.Is(err, domain.ErrIncompleteName) {
			e.log.Error().Msg("name is missing first or last part")
			return e.failure(group, function, http.StatusBadRequest,
				"Please provide both first and last names.")
		}
		return e.failure(group, function, http.StatusBadRequest, err.Error())
	}

	req := domain.NotificationRequest{
		Recipient: phone,
		FirstName: first,
		LastName:  last,
		Body:      fmt.Sprintf(smsTemplate, first, last),
	}

	messageID, err := e.notifier.Send(ctx, notify.Message{To: req.Recipient, Body: req.Body})
	if err != nil {
		e.log.Error().Err(err).Msg("notification send failed")
		return e.failure(group, function, http.StatusInternalServerError,
			fmt.Sprintf("Failed to send SMS: %s", err))
	}

	e.log.Info().
		Str("messageSid", messageID).
		Str("actionGroup", group).
		Msg("SMS sent successfully")

	return Result{
		StatusCode: http.StatusOK,
		Envelope: domain.NewActionResponse(group, function,
			domain.ResponseStateSuccess, "SMS sent successfully"),
	}
}

// failure builds an error result in the invocation's own envelope shape,
// not a raw error, so the backend can still parse it.
func (e *Executor) failure(group, function string, status int, message string) Result {
	return Result{
		StatusCode: status,
		Envelope: domain.NewActionResponse(group, function,
			domain.ResponseStateFailure, message),
	}
}
