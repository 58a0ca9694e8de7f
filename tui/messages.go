package tui

// MsgBanner sets the title of the panel.
type MsgBanner struct{ Title string }

// MsgLoggingIn signals that the login request was sent.
type MsgLoggingIn struct{ Email string }

// MsgLoginOK signals that the backend accepted the credentials.
type MsgLoginOK struct{ Email string }

// MsgTokenSaved signals that tokens were written to durable storage.
type MsgTokenSaved struct{ Location string }

// MsgTokenSaveFailed signals that durable storage refused the tokens.
type MsgTokenSaveFailed struct{ Err error }

// MsgRequesting signals that an admin call is in progress.
type MsgRequesting struct{ What string }

// MsgRequestOK signals that an admin call finished.
type MsgRequestOK struct{ What string }

// MsgAccessTokenRejected signals a 401 on an admin call.
type MsgAccessTokenRejected struct {
	Method string
	Path   string
}

// MsgRefreshing signals that a token refresh is in progress.
type MsgRefreshing struct{}

// MsgRefreshOK signals that the token was refreshed successfully.
type MsgRefreshOK struct{}

// MsgRefreshFailed signals that token refresh failed.
type MsgRefreshFailed struct{ Err error }

// MsgTokenRefreshedRetrying signals that the rejected call is being sent again.
type MsgTokenRefreshedRetrying struct{}

// MsgSessionTerminated signals that the stored session was cleared.
type MsgSessionTerminated struct{}

// MsgDone signals that the command finished.
type MsgDone struct{ Summary string }

// MsgFatal signals a fatal error that should terminate the command.
type MsgFatal struct{ Err error }
