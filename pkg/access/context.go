package access

// Context carries the authenticated caller's identity and the data-governance
// tags attached to their session. Services copy Classification and
// ResidencyZone from here onto every record they create unless the caller
// explicitly overrides them.
type Context struct {
	OrgID          string
	UserID         string
	Classification string
	ResidencyZone  string
	CorrelationID  string
}
