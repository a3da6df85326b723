package handoff

// Forward queue states: quality submits, production receives, production
// completes.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Backward queue terminal states. VERIFIED covers both acceptance and
// withdrawal for rework; CLOSED means quality also closed the punches.
const (
	StatusVerified = "VERIFIED"
	StatusClosed   = "CLOSED"
)

// Submission carries the identity and artifacts of a cabinet entering the
// forward queue.
type Submission struct {
	ProjectName string
	CabinetNo   string
	ExcelPath   string
	PDFPath     string
	PunchCount  int
	SubmittedBy string
	Remarks     string
}

// ForwardItem is one row of the quality_to_production queue.
type ForwardItem struct {
	ID            int64
	ProjectName   string
	CabinetNo     string
	ExcelPath     string
	PDFPath       string
	PunchCount    int
	SubmittedBy   string
	SubmittedDate string
	ReceivedBy    string
	ReceivedDate  string
	CompletedBy   string
	CompletedDate string
	Status        string
	Remarks       string
}

// HandbackItem is one row of the production_to_quality queue.
type HandbackItem struct {
	ID                int64
	ProjectName       string
	CabinetNo         string
	ExcelPath         string
	PDFPath           string
	PunchCount        int
	HandedBackBy      string
	HandedBackDate    string
	VerifiedBy        string
	VerifiedDate      string
	Status            string
	VerificationNotes string
}

// Terminal reports whether a forward item has left the active queue.
func (f ForwardItem) Terminal() bool {
	return f.Status == StatusCompleted
}

// Terminal reports whether a handback item has been settled by quality.
func (h HandbackItem) Terminal() bool {
	return h.Status == StatusVerified || h.Status == StatusClosed
}
