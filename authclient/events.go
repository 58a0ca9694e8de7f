package authclient

// Events receives session notifications from a Client. Refresh related events fire
// once per refresh flight, not once per waiting caller. Implementations must be safe
// for concurrent use.
type Events interface {
	AccessTokenRejected(method, path string)
	Refreshing()
	RefreshOK()
	RefreshFailed(err error)
	TokenRefreshedRetrying()
	SessionTerminated()
}

// NopEvents ignores every event.
type NopEvents struct{}

func (NopEvents) AccessTokenRejected(_, _ string) {}
func (NopEvents) Refreshing()                     {}
func (NopEvents) RefreshOK()                      {}
func (NopEvents) RefreshFailed(_ error)           {}
func (NopEvents) TokenRefreshedRetrying()         {}
func (NopEvents) SessionTerminated()              {}
