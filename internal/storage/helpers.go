package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

func configToNullString(config any) (sql.NullString, error) {
	var configData sql.NullString
	if config == nil {
		return configData, nil
	}

	switch v := config.(type) {
	case string:
		configData.String = v

	case []byte:
		configData.String = string(v)

	default:
		p, err := json.Marshal(config)
		if err != nil {
			return configData, fmt.Errorf("marshaling config: %w", err)
		}
		configData.String = string(p)
	}

	configData.Valid = true
	return configData, nil
}

func toDispatchData(sessionID int64, d *Dispatch) (*dispatchData, error) {
	if d.Sent == nil {
		return nil, fmt.Errorf("dispatch without sent frame")
	}

	sent, err := json.Marshal(d.Sent)
	if err != nil {
		return nil, fmt.Errorf("marshaling sent frame: %w", err)
	}

	var observed sql.NullString
	if d.Observed != nil {
		p, err := json.Marshal(d.Observed)
		if err != nil {
			return nil, fmt.Errorf("marshaling observed frame: %w", err)
		}
		observed.String = string(p)
		observed.Valid = true
	}

	return &dispatchData{
		SessionID: sessionID,
		Timestamp: d.Timestamp.UTC(),
		Scenario:  d.Scenario,
		Category:  d.Sent.Category().String(),
		Worker:    d.Worker,
		Sent:      string(sent),
		Observed:  observed,
		Matched:   d.Matched,
		ElapsedNS: d.Elapsed.Nanoseconds(),
	}, nil
}

func fromDispatchData(data *dispatchData) (*Dispatch, error) {
	category, err := trampoline.ParseCategory(data.Category)
	if err != nil {
		return nil, err
	}

	sent, err := decodeFrame(category, []byte(data.Sent))
	if err != nil {
		return nil, fmt.Errorf("decoding sent frame: %w", err)
	}

	d := Dispatch{
		ID:        data.ID,
		SessionID: data.SessionID,
		Timestamp: data.Timestamp,
		Scenario:  data.Scenario,
		Worker:    data.Worker,
		Sent:      sent,
		Matched:   data.Matched,
		Elapsed:   time.Duration(data.ElapsedNS),
	}

	if data.Observed.Valid {
		if d.Observed, err = decodeFrame(category, []byte(data.Observed.String)); err != nil {
			return nil, fmt.Errorf("decoding observed frame: %w", err)
		}
	}

	return &d, nil
}

func decodeFrame(category trampoline.Category, p []byte) (telemetry.Frame, error) {
	switch category {
	case trampoline.CategoryLinkStats:
		var f telemetry.LinkStats
		err := json.Unmarshal(p, &f)
		return f, err

	case trampoline.CategoryBattery:
		var f telemetry.Battery
		err := json.Unmarshal(p, &f)
		return f, err

	case trampoline.CategoryGPS:
		var f telemetry.GPS
		err := json.Unmarshal(p, &f)
		return f, err

	case trampoline.CategoryAttitude:
		var f telemetry.Attitude
		err := json.Unmarshal(p, &f)
		return f, err
	}

	return nil, fmt.Errorf("cannot decode frame of %s", category)
}
