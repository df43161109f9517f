package webhook

// CustomField mirrors the nested custom-field list of a lead notification.
// Its content is never decoded from the flat form encoding; the field exists
// so the record shape matches the payload and always carries an empty list.
type CustomField struct {
	ID     string
	Name   string
	Values []string
}

// LeadEvent is one decoded entry of a bulk lead notification. Every section
// (add/update/delete/status) uses the same superset shape; fields hold the
// raw strings exactly as received, and numeric parsing is deferred to the
// reconciler.
type LeadEvent struct {
	ID                string
	Name              string
	StatusID          string
	OldStatusID       string
	Price             string
	ResponsibleUserID string
	LastModified      string
	ModifiedUserID    string
	CreatedUserID     string
	DateCreate        string
	PipelineID        string
	AccountID         string
	CreatedAt         string
	UpdatedAt         string
	CustomFields      []CustomField
}

type fieldBinding struct {
	name string
	dst  *string
}

// bindings is the static field-name table for the LeadEvent shape. Field
// lookup during decoding goes through this table only, so the set of decoded
// payload fields is fixed at compile time.
func (e *LeadEvent) bindings() []fieldBinding {
	return []fieldBinding{
		{"id", &e.ID},
		{"name", &e.Name},
		{"status_id", &e.StatusID},
		{"old_status_id", &e.OldStatusID},
		{"price", &e.Price},
		{"responsible_user_id", &e.ResponsibleUserID},
		{"last_modified", &e.LastModified},
		{"modified_user_id", &e.ModifiedUserID},
		{"created_user_id", &e.CreatedUserID},
		{"date_create", &e.DateCreate},
		{"pipeline_id", &e.PipelineID},
		{"account_id", &e.AccountID},
		{"created_at", &e.CreatedAt},
		{"updated_at", &e.UpdatedAt},
	}
}

// ChangeSet is the typed result of decoding one bulk notification body.
type ChangeSet struct {
	Added         []LeadEvent
	Updated       []LeadEvent
	Deleted       []LeadEvent
	StatusChanged []LeadEvent
}

// Empty reports whether the change-set carries no entries at all.
func (cs ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Updated) == 0 && len(cs.Deleted) == 0 && len(cs.StatusChanged) == 0
}
