package domain

import "time"

// FileApprovalStatus tracks back-office review of an uploaded file.
type FileApprovalStatus string

const (
	FileApprovalPending  FileApprovalStatus = "PENDING"
	FileApprovalApproved FileApprovalStatus = "APPROVED"
	FileApprovalRejected FileApprovalStatus = "REJECTED"
)

// FileType describes a category of document a service may require.
type FileType struct {
	ID   string
	Name string
}

// WorkOrderFile is an uploaded document attached to a work order.
type WorkOrderFile struct {
	ID             string
	WorkOrderID    string
	FileTypeID     string
	FileTypeName   string
	FileName       string
	StorageKey     string
	ApprovalStatus FileApprovalStatus
	UploadedAt     time.Time
}
