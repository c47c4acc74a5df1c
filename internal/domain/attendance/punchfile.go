package attendance

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

const (
	PunchFormatJSON = "json"
	PunchFormatCSV  = "csv"
)

// punchCSVHeader is the column order of a punch CSV file. The two type
// columns are optional.
var punchCSVHeader = []string{"device_id", "device_user_id", "timestamp", "verify_type", "punch_type"}

// DecodePunches reads a punch file. JSON is either an array of punches or an
// object with a "punches" array. CSV carries a header row.
func DecodePunches(r io.Reader, format string) (IngestPunchesRequest, error) {
	switch strings.ToLower(format) {
	case PunchFormatJSON:
		return decodePunchesJSON(r)
	case PunchFormatCSV:
		return decodePunchesCSV(r)
	default:
		return IngestPunchesRequest{}, ErrUnknownPunchFormat
	}
}

func decodePunchesJSON(r io.Reader) (IngestPunchesRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return IngestPunchesRequest{}, fmt.Errorf("failed to read punches: %w", err)
	}

	var req IngestPunchesRequest
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &req.Punches)
	} else {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return IngestPunchesRequest{}, err
	}
	return req, nil
}

func decodePunchesCSV(r io.Reader) (IngestPunchesRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return IngestPunchesRequest{}, fmt.Errorf("%w: %v", ErrMalformedPunchFile, err)
	}
	if len(rows) == 0 {
		return IngestPunchesRequest{}, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var errs validator.ValidationErrors
	for _, required := range punchCSVHeader[:3] {
		if _, ok := columns[required]; !ok {
			errs = append(errs, validator.ValidationError{
				Field:   required,
				Message: fmt.Sprintf("csv header must include %s", required),
			})
		}
	}
	if len(errs) > 0 {
		return IngestPunchesRequest{}, errs
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var req IngestPunchesRequest
	for n, row := range rows[1:] {
		p := PunchInput{
			DeviceID:     cell(row, "device_id"),
			DeviceUserID: cell(row, "device_user_id"),
			Timestamp:    cell(row, "timestamp"),
		}
		for _, col := range punchCSVHeader[3:] {
			raw := cell(row, col)
			if raw == "" {
				continue
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("line %d.%s", n+2, col),
					Message: fmt.Sprintf("%s must be an integer", col),
				})
				continue
			}
			if col == "verify_type" {
				p.VerifyType = v
			} else {
				p.PunchType = v
			}
		}
		req.Punches = append(req.Punches, p)
	}
	if len(errs) > 0 {
		return IngestPunchesRequest{}, errs
	}
	return req, nil
}
