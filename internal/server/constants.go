package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Log messages
const (
	LogMsgRateLimited = "⚠️ Blocking high request rate"
)

// HTTP header names
const (
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderCacheControl   = "Cache-Control"
)

// Security header values
const (
	HeaderValueNoSniff             = "nosniff"
	HeaderValueDeny                = "DENY"
	HeaderValueReferrerNoReferrer  = "no-referrer"
	HeaderValueCacheControlNoStore = "no-store"
)

// Rate limit defaults
const (
	DefaultRateWindow = time.Minute
	// rateLogEvery throttles the block warning to one line per this many rejected requests
	rateLogEvery = 100
)
