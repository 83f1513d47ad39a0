package logging

// Field names shared by the service, the HTTP layer and the CLI.
const (
	FieldOperation = "operation"
	FieldEntity    = "entity"
	FieldUserID    = "user_id"
	FieldRecordID  = "record_id"
	FieldSubject   = "subject"
	FieldCount     = "count"
	FieldStatus    = "status"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldDuration  = "duration_ms"
	FieldRequestID = "request_id"
	FieldDriver    = "driver"
	FieldAddr      = "addr"
)
