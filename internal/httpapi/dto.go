package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/toil"
)

const maxBodyBytes = 1 << 20

type breakJSON struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

type sessionJSON struct {
	ID            string      `json:"id"`
	StartedAt     time.Time   `json:"startedAt"`
	EndedAt       *time.Time  `json:"endedAt"`
	Source        string      `json:"source"`
	LocationLabel *string     `json:"locationLabel"`
	Latitude      *float64    `json:"latitude"`
	Longitude     *float64    `json:"longitude"`
	Notes         *string     `json:"notes"`
	Breaks        []breakJSON `json:"breaks"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func toSessionJSON(s *domain.Session) *sessionJSON {
	if s == nil {
		return nil
	}
	out := &sessionJSON{
		ID:            s.ID,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		Source:        string(s.Source),
		LocationLabel: s.LocationLabel,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		Notes:         s.Notes,
		Breaks:        make([]breakJSON, 0, len(s.Breaks)),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, b := range s.Breaks {
		out.Breaks = append(out.Breaks, breakJSON{ID: b.ID, SessionID: b.SessionID, StartedAt: b.StartedAt, EndedAt: b.EndedAt})
	}
	return out
}

func toSessionsJSON(sessions []*domain.Session) []*sessionJSON {
	out := make([]*sessionJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionJSON(s))
	}
	return out
}

type clockInBody struct {
	StartedAt      *time.Time `json:"startedAt"`
	LocationLabel  *string    `json:"locationLabel"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Notes          *string    `json:"notes"`
	IdempotencyKey string     `json:"idempotencyKey"`
}

type clockOutBody struct {
	EndedAt        *time.Time `json:"endedAt"`
	IdempotencyKey string     `json:"idempotencyKey"`
}

type breakBody struct {
	StartedAt *time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

type createSessionBody struct {
	StartedAt     *time.Time  `json:"startedAt"`
	EndedAt       *time.Time  `json:"endedAt"`
	LocationLabel *string     `json:"locationLabel"`
	Latitude      *float64    `json:"latitude"`
	Longitude     *float64    `json:"longitude"`
	Notes         *string     `json:"notes"`
	Breaks        []breakBody `json:"breaks"`
}

type updateSessionBody struct {
	StartedAt     optional[time.Time]   `json:"startedAt"`
	EndedAt       optional[time.Time]   `json:"endedAt"`
	LocationLabel optional[string]      `json:"locationLabel"`
	Latitude      optional[float64]     `json:"latitude"`
	Longitude     optional[float64]     `json:"longitude"`
	Notes         optional[string]      `json:"notes"`
	Breaks        optional[[]breakBody] `json:"breaks"`
}

func toBreakInputs(in []breakBody) ([]contract.BreakInput, error) {
	out := make([]contract.BreakInput, 0, len(in))
	for i, b := range in {
		if b.StartedAt == nil || b.EndedAt == nil {
			return nil, fmt.Errorf("%w: breaks[%d] requires startedAt and endedAt", domain.ErrValidation, i)
		}
		out = append(out, contract.BreakInput{StartedAt: *b.StartedAt, EndedAt: *b.EndedAt})
	}
	return out, nil
}

func (b createSessionBody) toRequest() (contract.CreateSessionRequest, error) {
	if b.StartedAt == nil {
		return contract.CreateSessionRequest{}, fmt.Errorf("%w: startedAt is required", domain.ErrValidation)
	}
	breaks, err := toBreakInputs(b.Breaks)
	if err != nil {
		return contract.CreateSessionRequest{}, err
	}
	return contract.CreateSessionRequest{
		StartedAt: *b.StartedAt,
		EndedAt:   b.EndedAt,
		Details: domain.SessionDetails{
			LocationLabel: b.LocationLabel,
			Latitude:      b.Latitude,
			Longitude:     b.Longitude,
			Notes:         b.Notes,
		},
		Breaks: breaks,
	}, nil
}

func (b updateSessionBody) toRequest() (contract.UpdateSessionRequest, error) {
	var req contract.UpdateSessionRequest
	if b.StartedAt.Set {
		if b.StartedAt.Value == nil {
			return req, fmt.Errorf("%w: startedAt cannot be null", domain.ErrValidation)
		}
		req.StartedAt = b.StartedAt.Value
	}
	req.EndedAt = b.EndedAt.patch()
	req.LocationLabel = b.LocationLabel.patch()
	req.Latitude = b.Latitude.patch()
	req.Longitude = b.Longitude.patch()
	req.Notes = b.Notes.patch()
	if b.Breaks.Set {
		if b.Breaks.Value == nil {
			return req, fmt.Errorf("%w: breaks cannot be null", domain.ErrValidation)
		}
		breaks, err := toBreakInputs(*b.Breaks.Value)
		if err != nil {
			return req, err
		}
		req.Breaks = &breaks
	}
	return req, nil
}

type settingsJSON struct {
	ID                         string              `json:"id"`
	StandardDailyMinutes       int                 `json:"standardDailyMinutes"`
	RoundingRule               domain.RoundingRule `json:"roundingRule"`
	OvertimeStartsAfterMinutes *int                `json:"overtimeStartsAfterMinutes"`
	AllowNegativeTil           bool                `json:"allowNegativeTil"`
	WorkLocationGeofenceName   *string             `json:"workLocationGeofenceName"`
	ReportRecipientEmails      []string            `json:"reportRecipientEmails"`
	ReportSubjectTemplate      string              `json:"reportSubjectTemplate"`
	ReportFooter               string              `json:"reportFooter"`
	CreatedAt                  time.Time           `json:"createdAt"`
	UpdatedAt                  time.Time           `json:"updatedAt"`
}

func toSettingsJSON(s *domain.Settings) settingsJSON {
	emails := s.ReportRecipientEmails
	if emails == nil {
		emails = []string{}
	}
	return settingsJSON{
		ID:                         s.ID,
		StandardDailyMinutes:       s.StandardDailyMinutes,
		RoundingRule:               s.RoundingRule,
		OvertimeStartsAfterMinutes: s.OvertimeStartsAfterMinutes,
		AllowNegativeTil:           s.AllowNegativeTil,
		WorkLocationGeofenceName:   s.WorkLocationGeofenceName,
		ReportRecipientEmails:      emails,
		ReportSubjectTemplate:      s.ReportSubjectTemplate,
		ReportFooter:               s.ReportFooter,
		CreatedAt:                  s.CreatedAt,
		UpdatedAt:                  s.UpdatedAt,
	}
}

type updateSettingsBody struct {
	StandardDailyMinutes       *int                 `json:"standardDailyMinutes"`
	RoundingRule               *domain.RoundingRule `json:"roundingRule"`
	OvertimeStartsAfterMinutes optional[int]        `json:"overtimeStartsAfterMinutes"`
	AllowNegativeTil           *bool                `json:"allowNegativeTil"`
	WorkLocationGeofenceName   optional[string]     `json:"workLocationGeofenceName"`
	ReportRecipientEmails      *[]string            `json:"reportRecipientEmails"`
	ReportSubjectTemplate      *string              `json:"reportSubjectTemplate"`
	ReportFooter               *string              `json:"reportFooter"`
}

func (b updateSettingsBody) toPatch() domain.SettingsPatch {
	return domain.SettingsPatch{
		StandardDailyMinutes:       b.StandardDailyMinutes,
		RoundingRule:               b.RoundingRule,
		AllowNegativeTil:           b.AllowNegativeTil,
		OvertimeStartsAfterMinutes: b.OvertimeStartsAfterMinutes.patch(),
		WorkLocationGeofenceName:   b.WorkLocationGeofenceName.patch(),
		ReportRecipientEmails:      b.ReportRecipientEmails,
		ReportSubjectTemplate:      b.ReportSubjectTemplate,
		ReportFooter:               b.ReportFooter,
	}
}

type summaryJSON struct {
	From               string            `json:"from"`
	To                 string            `json:"to"`
	Timezone           string            `json:"timezone"`
	Days               []toil.DailyTotal `json:"days"`
	TotalWorkedMinutes int               `json:"totalWorkedMinutes"`
	TotalTilMinutes    int               `json:"totalTilMinutes"`
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}
