package domain

type HarvestStatus string

const (
	StatusSuccess HarvestStatus = "success"
	StatusFailed  HarvestStatus = "failed"
)

type TagHarvestResult struct {
	Tag     string        `json:"tag"`
	Status  HarvestStatus `json:"status"`
	Fetched int           `json:"fetched"`
	Stored  int           `json:"stored"`
	Error   string        `json:"error,omitempty"`
}

type HarvestSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type HarvestReport struct {
	TargetDate string             `json:"target_date"`
	Results    []TagHarvestResult `json:"results"`
	Summary    HarvestSummary     `json:"summary"`
	FinishedAt string             `json:"finished_at"`
}
