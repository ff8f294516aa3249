package apiclient

import "net/http"

// Action is the side effect the classifier picks for an ErrorResponse.
type Action int

const (
	// ActionNone propagates the error to the caller with no side effect.
	ActionNone Action = iota

	// ActionRedirect triggers a re-login redirect to the current path.
	ActionRedirect

	// ActionSurface reports the error to the configured ErrorSink.
	ActionSurface
)

func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionSurface:
		return "surface"
	default:
		return "none"
	}
}

// rule matches an exact (code, message) pair.
type rule struct {
	code    int
	message string
	action  Action
}

// classifierRules is evaluated in order and the first match wins. The
// explicit 401 rules deliberately shadow the 4xx fallback below, so
// 401/"token expired" redirects while any other 401 surfaces.
var classifierRules = []rule{
	{http.StatusUnauthorized, msgNoAuth, ActionRedirect},
	{http.StatusUnauthorized, msgTokenExpired, ActionRedirect},
	{http.StatusUnauthorized, msgTokenInvalid, ActionSurface},
	{http.StatusInternalServerError, msgServerError, ActionSurface},
}

// classify maps an ErrorResponse to the side effect it should trigger.
// Whatever the action, the error itself still propagates to the caller.
func classify(err *ErrorResponse) Action {
	for _, r := range classifierRules {
		if err.Code == r.code && err.Message == r.message {
			return r.action
		}
	}
	if err.Code > http.StatusBadRequest && err.Code <= http.StatusInternalServerError {
		return ActionSurface
	}
	return ActionNone
}

// classified fires the side effect for err and hands it back as the error
// the caller sees. With ignore set all side effects are suppressed and the
// error is only logged, which lets callers handle failures inline.
func (c *Client) classified(err *ErrorResponse, ignore bool) error {
	if ignore {
		c.logger.Debugf("ignoring api error: %v", err)
		return err
	}

	switch classify(err) {
	case ActionRedirect:
		path := c.currentPath()
		c.logger.Infof("authentication lost (%v), redirecting to login with return path %s", err, path)
		c.metrics.IncCounter("apiclient_relogin_total", nil)
		c.tokens.Login(path)
	case ActionSurface:
		c.logger.Warnf("surfacing api error: %v", err)
		c.errorSink.Report(err)
	}
	return err
}
