package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/field-service/internal/domain"
)

func newTestTrail() (*AuditTrail, *memAudit) {
	repo := &memAudit{}
	staff := &fakeStaff{members: map[string]*domain.StaffMember{
		"tech-1": {ID: "tech-1", FirstName: "Aram", LastName: "Petros", Role: domain.StaffRoleTechnician, Active: true},
	}}
	return NewAuditTrail(repo, testCatalog(), staff), repo
}

func TestRecordChangesResolvesStatusLabels(t *testing.T) {
	trail, repo := newTestTrail()

	err := trail.RecordChanges(context.Background(), "wo-1", domain.AuditActionTransition,
		Actor{ID: "tech-1"}, []FieldChange{
			{Field: "status", Old: int64(2), New: int64(3)},
		}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "Status was changed from Dispatched to In Progress", entry.Description)
	require.NotNil(t, entry.OldValue)
	assert.Equal(t, "Dispatched", *entry.OldValue)
	require.NotNil(t, entry.NewValue)
	assert.Equal(t, "In Progress", *entry.NewValue)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "tech-1", *entry.ActorID)
}

func TestRecordChangesSubStatusOnlyMove(t *testing.T) {
	trail, repo := newTestTrail()

	err := trail.RecordChanges(context.Background(), "wo-1", domain.AuditActionReview,
		Actor{}, []FieldChange{
			{Field: "sub_status", Old: int64(16), New: int64(17)},
		}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Feedback Pending was updated", repo.entries[0].Description)
	assert.Nil(t, repo.entries[0].ActorID)
}

func TestRecordChangesSubStatusAlongsideStatus(t *testing.T) {
	trail, repo := newTestTrail()

	err := trail.RecordChanges(context.Background(), "wo-1", domain.AuditActionTransition,
		Actor{}, []FieldChange{
			{Field: "status", Old: int64(3), New: int64(5)},
			{Field: "sub_status", Old: int64(14), New: int64(16)},
		}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "Status was changed from In Progress to Completed", repo.entries[0].Description)
	assert.Equal(t, "Sub Status was changed from Work Started to Pending Service Centre Complete", repo.entries[1].Description)
}

func TestRecordChangesResolvesStaffNames(t *testing.T) {
	trail, repo := newTestTrail()

	err := trail.RecordChanges(context.Background(), "wo-1", domain.AuditActionAssignment,
		Actor{ID: "crm-1"}, []FieldChange{
			{Field: "technician_id", Old: nil, New: "tech-1"},
		}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "Technician was updated", entry.Description)
	assert.Nil(t, entry.OldValue)
	require.NotNil(t, entry.NewValue)
	assert.Equal(t, "Aram Petros", *entry.NewValue)
}

func TestRecordChangesClearedField(t *testing.T) {
	trail, repo := newTestTrail()

	err := trail.RecordChanges(context.Background(), "wo-1", domain.AuditActionTransition,
		Actor{}, []FieldChange{
			{Field: "technician_id", Old: "tech-1", New: nil},
		}, nil)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Technician was cleared", repo.entries[0].Description)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "2025-03-10 09:00", formatValue(testClock))
	assert.Equal(t, "Yes", formatValue(true))
	assert.Equal(t, "No", formatValue(false))
	assert.Equal(t, "plain", formatValue("plain"))
}

func TestSnapshotDiffTracksChangedFieldsOnly(t *testing.T) {
	wo := &domain.WorkOrder{StatusID: 2, WarrantyType: domain.WarrantyNone}
	snap := takeSnapshot(wo)

	wo.StatusID = 3
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	wo.ServiceStartDate = &now

	changes := snap.diff(wo)
	require.Len(t, changes, 2)
	assert.Equal(t, "status", changes[0].Field)
	assert.Equal(t, "service_start_date", changes[1].Field)
}

func TestSnapshotDiffIgnoresEqualTimes(t *testing.T) {
	utc := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("X", 3600))

	wo := &domain.WorkOrder{StatusID: 2, AcceptedAt: &utc}
	snap := takeSnapshot(wo)
	wo.AcceptedAt = &local

	assert.Empty(t, snap.diff(wo))
}
