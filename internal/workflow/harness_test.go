package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/field-service/internal/catalog"
	"github.com/spec-kit/field-service/internal/domain"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/repository"
)

var testClock = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func testCatalog() *catalog.Catalog {
	ptr := func(v int64) *int64 { return &v }
	return catalog.New([]domain.Status{
		{ID: 1, Slug: domain.StatusAllocated, Name: "Allocated"},
		{ID: 2, Slug: domain.StatusDispatched, Name: "Dispatched"},
		{ID: 3, Slug: domain.StatusInProgress, Name: "In Progress"},
		{ID: 4, Slug: domain.StatusPartInDemand, Name: "Part In Demand"},
		{ID: 5, Slug: domain.StatusCompleted, Name: "Completed"},
		{ID: 6, Slug: domain.StatusCancelled, Name: "Cancelled"},
		{ID: 7, Slug: domain.StatusClosed, Name: "Closed"},
		{ID: 10, Slug: domain.SubAssignedToTechnician, Name: "Assigned To Technician", ParentID: ptr(2)},
		{ID: 11, Slug: domain.SubTechnicianAccepted, Name: "Technician Accepted", ParentID: ptr(2)},
		{ID: 12, Slug: domain.SubTechnicianRejected, Name: "Technician Rejected", ParentID: ptr(2)},
		{ID: 13, Slug: domain.SubGoingToWork, Name: "Going To Work", ParentID: ptr(3)},
		{ID: 14, Slug: domain.SubWorkStarted, Name: "Work Started", ParentID: ptr(3)},
		{ID: 15, Slug: domain.SubReworkRequired, Name: "Rework Required", ParentID: ptr(3)},
		{ID: 16, Slug: domain.SubPendingServiceCentre, Name: "Pending Service Centre Complete", ParentID: ptr(5)},
		{ID: 17, Slug: domain.SubFeedbackPending, Name: "Feedback Pending", ParentID: ptr(5)},
		{ID: 18, Slug: domain.SubCustomerCancelled, Name: "Customer Cancelled", ParentID: ptr(6)},
		{ID: 19, Slug: domain.SubTechnicianCancelled, Name: "Technician Cancelled", ParentID: ptr(6)},
	})
}

// passthroughTx satisfies TxRunner without a real database. State kept
// by the memory fakes only changes on explicit writes, so a failed
// attempt leaves them untouched the way a rollback would.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memWorkOrders struct {
	mu        sync.Mutex
	items     map[string]*domain.WorkOrder
	seq       int
	conflicts int
}

func newMemWorkOrders() *memWorkOrders {
	return &memWorkOrders{items: make(map[string]*domain.WorkOrder)}
}

func cloneWorkOrder(wo *domain.WorkOrder) *domain.WorkOrder {
	clone := *wo
	return &clone
}

func (m *memWorkOrders) Create(_ context.Context, wo *domain.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	wo.ID = fmt.Sprintf("wo-%d", m.seq)
	wo.Version = 1
	wo.CreatedAt = testClock
	wo.UpdatedAt = testClock
	m.items[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (m *memWorkOrders) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wo, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneWorkOrder(wo), nil
}

func (m *memWorkOrders) GetForUpdate(ctx context.Context, id string) (*domain.WorkOrder, error) {
	return m.GetByID(ctx, id)
}

func (m *memWorkOrders) UpdateVersioned(_ context.Context, wo *domain.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return repository.ErrVersionConflict
	}
	stored, ok := m.items[wo.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != wo.Version {
		return repository.ErrVersionConflict
	}
	wo.Version++
	m.items[wo.ID] = cloneWorkOrder(wo)
	return nil
}

func (m *memWorkOrders) List(_ context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.WorkOrder
	for _, wo := range m.items {
		if filter.StatusID != nil && wo.StatusID != *filter.StatusID {
			continue
		}
		if filter.TechnicianID != nil && (wo.TechnicianID == nil || *wo.TechnicianID != *filter.TechnicianID) {
			continue
		}
		if filter.CustomerID != nil && wo.CustomerID != *filter.CustomerID {
			continue
		}
		result = append(result, *cloneWorkOrder(wo))
	}
	return result, nil
}

// put seeds a work order directly, bypassing Create.
func (m *memWorkOrders) put(wo *domain.WorkOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if wo.Version == 0 {
		wo.Version = 1
	}
	m.items[wo.ID] = cloneWorkOrder(wo)
}

func (m *memWorkOrders) get(id string) *domain.WorkOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneWorkOrder(m.items[id])
}

type memAudit struct {
	mu      sync.Mutex
	seq     int
	entries []domain.AuditEntry
}

func (m *memAudit) Create(_ context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	entry.ID = fmt.Sprintf("audit-%d", m.seq)
	entry.CreatedAt = testClock.Add(time.Duration(m.seq) * time.Millisecond)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) ListByWorkOrder(_ context.Context, workOrderID string, limit, offset int) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.AuditEntry
	for _, entry := range m.entries {
		if entry.WorkOrderID == workOrderID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *memAudit) byWorkOrder(workOrderID string) []domain.AuditEntry {
	entries, _ := m.ListByWorkOrder(context.Background(), workOrderID, 0, 0)
	return entries
}

type fakeStaff struct {
	members map[string]*domain.StaffMember
}

func (f *fakeStaff) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return member, nil
}

func (f *fakeStaff) DisplayName(_ context.Context, id string) string {
	if member, ok := f.members[id]; ok {
		return member.DisplayName()
	}
	return id
}

type fakeFiles struct {
	uploaded map[string][]string
	pending  map[string][]domain.WorkOrderFile
}

func (f *fakeFiles) UploadedTypes(_ context.Context, workOrderID string) ([]string, error) {
	return f.uploaded[workOrderID], nil
}

func (f *fakeFiles) PendingOrRejected(_ context.Context, workOrderID string) ([]domain.WorkOrderFile, error) {
	return f.pending[workOrderID], nil
}

type fakeServices struct {
	required map[string][]domain.FileType
}

func (f *fakeServices) RequiredFileTypes(_ context.Context, serviceID string) ([]domain.FileType, error) {
	return f.required[serviceID], nil
}

type fakeParts struct {
	parts map[string][]domain.Part
}

func (f *fakeParts) NonTerminal(_ context.Context, workOrderID string) ([]domain.Part, error) {
	var result []domain.Part
	for _, part := range f.parts[workOrderID] {
		if !part.State.IsTerminal() {
			result = append(result, part)
		}
	}
	return result, nil
}

func (f *fakeParts) HasParts(_ context.Context, workOrderID string) (bool, error) {
	return len(f.parts[workOrderID]) > 0, nil
}

type fakeFeedback struct {
	seq   int
	items map[string]*domain.Feedback
}

func (f *fakeFeedback) Create(_ context.Context, feedback *domain.Feedback) error {
	f.seq++
	feedback.ID = fmt.Sprintf("fb-%d", f.seq)
	f.items[feedback.WorkOrderID] = feedback
	return nil
}

func (f *fakeFeedback) GetByWorkOrder(_ context.Context, workOrderID string) (*domain.Feedback, error) {
	feedback, ok := f.items[workOrderID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return feedback, nil
}

func (f *fakeFeedback) Exists(_ context.Context, workOrderID string) (bool, error) {
	_, ok := f.items[workOrderID]
	return ok, nil
}

// put seeds a feedback record directly, bypassing Create.
func (f *fakeFeedback) put(workOrderID string, rating int) {
	f.seq++
	f.items[workOrderID] = &domain.Feedback{
		ID:          fmt.Sprintf("fb-%d", f.seq),
		WorkOrderID: workOrderID,
		Rating:      rating,
		CreatedAt:   testClock,
	}
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) kinds() []events.Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]events.Kind, 0, len(d.events))
	for _, event := range d.events {
		result = append(result, event.Kind)
	}
	return result
}

// harness bundles the engine, its fakes and common fixtures.
type harness struct {
	engine      *Engine
	assignments *AssignmentManager
	workOrders  *memWorkOrders
	audit       *memAudit
	files       *fakeFiles
	services    *fakeServices
	parts       *fakeParts
	feedback    *fakeFeedback
	staff       *fakeStaff
	dispatcher  *capturingDispatcher
	catalog     *catalog.Catalog
}

func newHarness() *harness {
	cat := testCatalog()
	workOrders := newMemWorkOrders()
	audit := &memAudit{}
	files := &fakeFiles{uploaded: map[string][]string{}, pending: map[string][]domain.WorkOrderFile{}}
	services := &fakeServices{required: map[string][]domain.FileType{}}
	parts := &fakeParts{parts: map[string][]domain.Part{}}
	feedback := &fakeFeedback{items: map[string]*domain.Feedback{}}
	staff := &fakeStaff{members: map[string]*domain.StaffMember{
		"tech-1": {ID: "tech-1", FirstName: "Aram", LastName: "Petros", Role: domain.StaffRoleTechnician, Active: true},
		"tech-2": {ID: "tech-2", FirstName: "Lena", LastName: "Koval", Role: domain.StaffRoleTechnician, Active: true},
		"crm-1":  {ID: "crm-1", FirstName: "Dina", LastName: "Soto", Role: domain.StaffRoleCRM, Active: true},
	}}
	dispatcher := &capturingDispatcher{}
	trail := NewAuditTrail(audit, cat, staff)

	engine := NewEngine(EngineDependencies{
		Tx:         passthroughTx{},
		WorkOrders: workOrders,
		Services:   services,
		Files:      files,
		Parts:      parts,
		Feedback:   feedback,
		Audit:      trail,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Now:        func() time.Time { return testClock },
	})
	assignments := NewAssignmentManager(AssignmentDependencies{
		Tx:         passthroughTx{},
		WorkOrders: workOrders,
		Staff:      staff,
		Audit:      trail,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Now:        func() time.Time { return testClock },
	})

	return &harness{
		engine:      engine,
		assignments: assignments,
		workOrders:  workOrders,
		audit:       audit,
		files:       files,
		services:    services,
		parts:       parts,
		feedback:    feedback,
		staff:       staff,
		dispatcher:  dispatcher,
		catalog:     cat,
	}
}

// seedWorkOrder stores a work order in the given state and returns its id.
func (h *harness) seedWorkOrder(topSlug, subSlug string, mutate func(wo *domain.WorkOrder)) string {
	top, sub, err := h.catalog.Resolve(topSlug, subSlug)
	if err != nil {
		panic(err)
	}
	wo := &domain.WorkOrder{
		ID:           "wo-seed",
		SequenceKey:  "WO-TEST0001",
		CustomerID:   "cust-1",
		ServiceID:    "svc-1",
		WarrantyType: domain.WarrantyNone,
		StatusID:     top.ID,
		Version:      1,
		CreatedAt:    testClock,
		UpdatedAt:    testClock,
	}
	if sub != nil {
		subID := sub.ID
		wo.SubStatusID = &subID
	}
	if mutate != nil {
		mutate(wo)
	}
	h.workOrders.put(wo)
	return wo.ID
}

func (h *harness) slugOf(wo *domain.WorkOrder) (string, string) {
	top := h.catalog.SlugOf(wo.StatusID)
	sub := ""
	if wo.SubStatusID != nil {
		sub = h.catalog.SlugOf(*wo.SubStatusID)
	}
	return top, sub
}

func strptr(v string) *string { return &v }

func timeptr(v time.Time) *time.Time { return &v }
