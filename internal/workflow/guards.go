package workflow

import (
	"fmt"
	"strings"

	"github.com/spec-kit/field-service/internal/domain"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

// Violation is a structured guard failure. Missing lists the
// user-actionable items blocking the transition.
type Violation struct {
	Guard   string
	Message string
	Missing []string
}

// GuardInput is the read-only snapshot guards evaluate against. The
// engine loads it inside the operation's transaction so guards see the
// latest persisted state; guards themselves never perform I/O.
type GuardInput struct {
	RequiredFileTypes []domain.FileType
	UploadedTypeIDs   []string
	PendingFiles      []domain.WorkOrderFile
	NonTerminalParts  []domain.Part
	FeedbackExists    bool
}

// RequiredFilesGuard checks that every file type the service definition
// requires has at least one upload.
func RequiredFilesGuard(in GuardInput) *Violation {
	uploaded := make(map[string]struct{}, len(in.UploadedTypeIDs))
	for _, typeID := range in.UploadedTypeIDs {
		uploaded[typeID] = struct{}{}
	}
	var missing []string
	for _, required := range in.RequiredFileTypes {
		if _, ok := uploaded[required.ID]; !ok {
			missing = append(missing, required.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Violation{
		Guard:   "required_files",
		Message: "required files are missing",
		Missing: missing,
	}
}

// warrantyFieldLabels maps the mandatory brand-warranty fields to their
// display labels, in reporting order.
var warrantyFieldLabels = []struct {
	label string
	set   func(wo *domain.WorkOrder) bool
}{
	{"Indoor Serial Number", func(wo *domain.WorkOrder) bool { return present(wo.IndoorSerialNo) }},
	{"Outdoor Serial Number", func(wo *domain.WorkOrder) bool { return present(wo.OutdoorSerialNo) }},
	{"Indoor Model", func(wo *domain.WorkOrder) bool { return present(wo.IndoorModel) }},
	{"Outdoor Model", func(wo *domain.WorkOrder) bool { return present(wo.OutdoorModel) }},
	{"Purchase Date", func(wo *domain.WorkOrder) bool { return wo.PurchaseDate != nil }},
}

// WarrantyFieldsGuard requires the warranty detail fields for
// on-brand-warranty work orders; inactive otherwise.
func WarrantyFieldsGuard(wo *domain.WorkOrder) *Violation {
	if wo.WarrantyType != domain.WarrantyOnBrand {
		return nil
	}
	var missing []string
	for _, field := range warrantyFieldLabels {
		if !field.set(wo) {
			missing = append(missing, field.label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Violation{
		Guard:   "warranty_fields",
		Message: "warranty details are incomplete",
		Missing: missing,
	}
}

// PartsResolvedGuard blocks while any linked part is in a non-terminal
// state.
func PartsResolvedGuard(in GuardInput) *Violation {
	if len(in.NonTerminalParts) == 0 {
		return nil
	}
	seen := make(map[domain.PartState]struct{})
	var states []string
	var missing []string
	for _, part := range in.NonTerminalParts {
		if _, ok := seen[part.State]; !ok {
			seen[part.State] = struct{}{}
			states = append(states, string(part.State))
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", part.Name, part.State))
	}
	return &Violation{
		Guard:   "parts_resolved",
		Message: "parts pending in states: " + strings.Join(states, ", "),
		Missing: missing,
	}
}

// FeedbackGuard requires customer feedback before closure.
func FeedbackGuard(in GuardInput) *Violation {
	if in.FeedbackExists {
		return nil
	}
	return &Violation{
		Guard:   "feedback",
		Message: "customer feedback is missing",
		Missing: []string{"Customer Feedback"},
	}
}

// FileApprovalGuard blocks while any uploaded file is pending review or
// rejected.
func FileApprovalGuard(in GuardInput) *Violation {
	if len(in.PendingFiles) == 0 {
		return nil
	}
	missing := make([]string, 0, len(in.PendingFiles))
	for _, file := range in.PendingFiles {
		name := file.FileName
		if name == "" {
			name = file.FileTypeName
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", name, strings.ToLower(string(file.ApprovalStatus))))
	}
	return &Violation{
		Guard:   "file_approval",
		Message: "uploaded files are pending review or rejected",
		Missing: missing,
	}
}

// collect drops nil results so callers can evaluate a guard set in one
// expression.
func collect(violations ...*Violation) []Violation {
	var out []Violation
	for _, violation := range violations {
		if violation != nil {
			out = append(out, *violation)
		}
	}
	return out
}

// violationError aggregates a failed guard set into one structured
// error; all applicable guards have already run, so the report is
// complete rather than partial.
func violationError(violations []Violation) error {
	var messages []string
	var missing []string
	for _, violation := range violations {
		messages = append(messages, violation.Message)
		missing = append(missing, violation.Missing...)
	}
	return apperrors.NewValidationViolation(strings.Join(messages, "; "), missing)
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
