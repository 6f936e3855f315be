package app

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"practicelog/internal/model"
	"practicelog/internal/repository"
)

// TagDelimiter joins the tag column in CSV exports.
const TagDelimiter = "|"

// SessionRecord is the interchange shape shared by JSON export, JSON
// import and (flattened) CSV export.
type SessionRecord struct {
	ID          uint     `json:"id,omitempty"`
	Date        string   `json:"date"`
	Topic       string   `json:"topic"`
	DurationMin int      `json:"duration_min"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes"`
	Instrument  string   `json:"instrument,omitempty"`
}

// ImportRecordResult reports the outcome for a single imported record.
type ImportRecordResult struct {
	Index     int         `json:"index"`
	OK        bool        `json:"ok"`
	SessionID uint        `json:"session_id,omitempty"`
	Errors    FieldErrors `json:"errors,omitempty"`
}

type ImportReport struct {
	BatchID  string               `json:"batch_id"`
	Total    int                  `json:"total"`
	Imported int                  `json:"imported"`
	Failed   int                  `json:"failed"`
	Records  []ImportRecordResult `json:"records"`
}

type TransferService struct {
	sessionRepo    *repository.SessionRepository
	instrumentRepo *repository.InstrumentRepository
	sessionSvc     *SessionService
}

func NewTransferService(
	sessionRepo *repository.SessionRepository,
	instrumentRepo *repository.InstrumentRepository,
	sessionSvc *SessionService,
) *TransferService {
	return &TransferService{
		sessionRepo:    sessionRepo,
		instrumentRepo: instrumentRepo,
		sessionSvc:     sessionSvc,
	}
}

// ExportRecords returns every stored session in interchange form, oldest
// date first.
func (s *TransferService) ExportRecords() ([]SessionRecord, error) {
	sessions, err := s.sessionRepo.List(repository.SessionFilter{})
	if err != nil {
		return nil, err
	}

	instrumentNames, err := s.instrumentNames()
	if err != nil {
		return nil, err
	}

	records := make([]SessionRecord, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		records = append(records, toRecord(sessions[i], instrumentNames))
	}
	return records, nil
}

func (s *TransferService) ExportJSON(w io.Writer) error {
	records, err := s.ExportRecords()
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode export failed: %w", err)
	}
	return nil
}

func (s *TransferService) ExportCSV(w io.Writer) error {
	records, err := s.ExportRecords()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"id", "date", "topic", "duration_min", "tags", "notes", "instrument"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header failed: %w", err)
	}
	for _, record := range records {
		row := []string{
			strconv.FormatUint(uint64(record.ID), 10),
			record.Date,
			record.Topic,
			strconv.Itoa(record.DurationMin),
			strings.Join(record.Tags, TagDelimiter),
			strings.ReplaceAll(record.Notes, "\n", " "),
			record.Instrument,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row failed: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv failed: %w", err)
	}
	return nil
}

// ImportJSON parses an exported JSON array and persists each valid record,
// validating records independently. One malformed record never aborts the
// batch; failures are collected per record in the report.
func (s *TransferService) ImportJSON(data []byte) (*ImportReport, error) {
	var records []SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse import payload failed: %w", err)
	}

	report := &ImportReport{
		BatchID: uuid.NewString(),
		Total:   len(records),
		Records: make([]ImportRecordResult, 0, len(records)),
	}

	for i, record := range records {
		session, err := s.sessionSvc.Create(SessionForm{
			Date:        record.Date,
			Topic:       record.Topic,
			DurationMin: record.DurationMin,
			Notes:       record.Notes,
			Tags:        record.Tags,
			Instrument:  record.Instrument,
		})
		if err != nil {
			report.Failed++
			report.Records = append(report.Records, ImportRecordResult{
				Index:  i,
				Errors: asFieldErrors(err),
			})
			continue
		}
		report.Imported++
		report.Records = append(report.Records, ImportRecordResult{
			Index:     i,
			OK:        true,
			SessionID: session.ID,
		})
	}
	return report, nil
}

func (s *TransferService) instrumentNames() (map[uint]string, error) {
	instruments, err := s.instrumentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(instruments))
	for _, instrument := range instruments {
		names[instrument.ID] = instrument.Name
	}
	return names, nil
}

func toRecord(session model.Session, instrumentNames map[uint]string) SessionRecord {
	tags := make([]string, 0, len(session.Tags))
	for _, tag := range session.Tags {
		tags = append(tags, tag.Name)
	}

	record := SessionRecord{
		ID:          session.ID,
		Date:        session.Date,
		Topic:       session.Topic,
		DurationMin: session.DurationMin,
		Tags:        tags,
		Notes:       session.Notes,
	}
	if session.InstrumentID != nil {
		record.Instrument = instrumentNames[*session.InstrumentID]
	}
	return record
}

func asFieldErrors(err error) FieldErrors {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	return FieldErrors{"record": err.Error()}
}
