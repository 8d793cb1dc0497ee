package dto

// RefreshReq represents the request for token refresh and logout.
// The refresh field carries the opaque session token issued at login.
type RefreshReq struct {
	Refresh string `json:"refresh" binding:"required"`
}
