package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod    = "method"
	AttrPath      = "path"
	AttrStatus    = "status"
	AttrSink      = "sink"
	AttrReason    = "reason"
	AttrMessageID = "message_id"
	AttrChanged   = "changed"
	AttrJob       = "job"
)
