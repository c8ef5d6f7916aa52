package repository

// TicketFilter narrows List results. AssignedTo and Unassigned combine into a
// single predicate: assigned_to IS NULL OR assigned_to = ANY(ids), matching
// the "mine plus unclaimed" queue view used by auxiliares.
type TicketFilter struct {
	Q          string
	Status     string
	CreatedBy  string
	AssignedTo []string
	Unassigned bool
	Limit      int
	Offset     int
}
