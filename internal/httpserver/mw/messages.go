package mw

const (
	MsgForbidden       = "forbidden"
	MsgTooManyRequests = "too many requests"
)
