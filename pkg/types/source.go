// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceType identifies where a data pull came from.
type SourceType string

const (
	SourceCSV         SourceType = "csv"
	SourceExcel       SourceType = "excel"
	SourceAPI         SourceType = "api"
	SourceDatabase    SourceType = "database"
	SourceJSON        SourceType = "json"
	SourceWebScraping SourceType = "web_scraping"
	SourceManual      SourceType = "manual"
	SourcePDF         SourceType = "pdf"
	SourceOther       SourceType = "other"
)

// SourceTypes lists the accepted source types in form display order.
var SourceTypes = []SourceType{
	SourceCSV, SourceExcel, SourceAPI, SourceDatabase, SourceJSON,
	SourceWebScraping, SourceManual, SourcePDF, SourceOther,
}

// Valid reports whether t is one of SourceTypes.
func (t SourceType) Valid() bool {
	for _, v := range SourceTypes {
		if t == v {
			return true
		}
	}
	return false
}

// SourceStatus records the outcome of a data pull.
type SourceStatus string

const (
	StatusSuccess    SourceStatus = "success"
	StatusFailed     SourceStatus = "failed"
	StatusPartial    SourceStatus = "partial"
	StatusInProgress SourceStatus = "in_progress"
)

// SourceStatuses lists the accepted statuses in form display order.
var SourceStatuses = []SourceStatus{StatusSuccess, StatusFailed, StatusPartial, StatusInProgress}

// Valid reports whether s is one of SourceStatuses.
func (s SourceStatus) Valid() bool {
	for _, v := range SourceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DataSource is one tracked data pull. Name is unique; adding a source with
// an existing name replaces the earlier record.
type DataSource struct {
	// ID is assigned by the tracker store.
	ID int64 `json:"id" yaml:"id"`

	// Name is the unique, human-chosen identifier (e.g. "act_2024").
	Name string `json:"name" yaml:"name"`

	// DatePulled is when the data was collected.
	DatePulled time.Time `json:"date_pulled" yaml:"date_pulled"`

	// SourceType is the kind of source.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// FilePath is an optional path or URL.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	// RecordCount is the number of records pulled, nil when unknown.
	RecordCount *int `json:"record_count,omitempty" yaml:"record_count,omitempty"`

	// Status is the pull outcome.
	Status SourceStatus `json:"status" yaml:"status"`

	// Notes is free text.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Metadata holds optional details such as contact_person, data_owner
	// and file_size.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
