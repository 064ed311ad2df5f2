package domain

// Public messages returned in the error body of claim endpoints
const (
	MsgMissingFields    = "Missing fields"
	MsgInvalidHash      = "Invalid content_hash"
	MsgHashMismatch     = "content_hash does not match title and description"
	MsgDatabaseError    = "Database error"
	MsgInsertFailed     = "Insert failed"
	MsgMisconfigured    = "Server misconfigured"
	MsgNotFound         = "not found"
	MsgTooManyRequests  = "Too many requests"
	MsgMethodNotAllowed = "Method not allowed"
)
