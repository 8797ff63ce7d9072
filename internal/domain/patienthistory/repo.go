package patienthistory

import "context"

// Repository is the persistence collaborator for patient history. Save must
// store the live item and append snap in one unit of work, so that every
// visible mutation of a live item leaves exactly one new snapshot. For
// tracking items Save also supersedes the lineage's previous current
// snapshot. ListSnapshots returns a lineage in edit order.
type Repository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]LiveItem, error)
	Get(ctx context.Context, t HistoryType, id int64) (LiveItem, error)
	Save(ctx context.Context, item LiveItem, snap Snapshot) error
	ListSnapshots(ctx context.Context, t HistoryType, itemID int64) ([]Snapshot, error)
}
