package common

const (
	KEY_DASHBOARD_SESSION = "dashboard_session:%s"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)
